package internal

import (
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
)

// QRSize is the edge length in pixels of generated QR images.
const QRSize = 256

// ephemeralKey signs tokens when no secret is configured; such tokens only
// verify within the same process.
var ephemeralKey = []byte(uuid.New().String())

func pairingKey(secret string) []byte {
	if secret == "" { return ephemeralKey }
	return []byte(secret)
}

// PairingClaims is the payload carried by a device's pairing QR code.
// The embedded registered claims carry iat and jti.
type PairingClaims struct {
	DeviceID   string `json:"deviceId"`
	DeviceName string `json:"deviceName"`
	Category   string `json:"category"`
	LinkCode   string `json:"linkCode"`
	jwt.RegisteredClaims
}

// PairingToken signs an HS256 JWT for d. The device firmware does not verify
// it yet; it only needs the link code and device id.
func PairingToken(d Device, secret string, now time.Time) (string, error) {
	claims := PairingClaims{
		DeviceID:   d.ID,
		DeviceName: d.Name,
		Category:   DeviceTypeName(d.Type),
		LinkCode:   d.LinkCode,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       uuid.New().String(),
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(pairingKey(secret))
}

// ParsePairingToken verifies a token made by PairingToken and returns its claims.
func ParsePairingToken(token, secret string) (PairingClaims, bool) {
	var c PairingClaims
	_, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) {
		return pairingKey(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil { return PairingClaims{}, false }
	return c, true
}

// QRPNG renders data as a PNG QR code with high error correction.
func QRPNG(data string) ([]byte, error) {
	return qrcode.Encode(data, qrcode.High, QRSize)
}

var nonSlug = regexp.MustCompile(`\s+`)

// QRFileName is the download name for a device's QR image.
func QRFileName(deviceName string) string {
	slug := strings.ToLower(nonSlug.ReplaceAllString(strings.TrimSpace(deviceName), "-"))
	if slug == "" { slug = "device" }
	return slug + "-qr-code.png"
}
