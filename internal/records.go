package internal

import (
	"errors"
	"strings"
)

const (
	// HubCodeField holds a hub's link code.
	HubCodeField = "hubCode"
	// DeviceCodeField holds a device's link code.
	DeviceCodeField = "linkCode"
)

var (
	// ErrInvalidInput is returned when a form or flag value is missing or malformed.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnknownDeviceType is returned for a device type outside the catalog.
	ErrUnknownDeviceType = errors.New("unknown device type")
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")
)

// HubType is the kind of site a hub manages.
type HubType string

const (
	HubTenant      HubType = "tenant"
	HubHomeManager HubType = "homeManager"
)

// ParseHubType accepts the form values and their stored equivalents.
func ParseHubType(s string) (HubType, error) {
	switch strings.TrimSpace(s) {
	case "", "tenant":
		return HubTenant, nil
	case "homeManager", "admin":
		return HubHomeManager, nil
	}
	return "", errors.Join(ErrInvalidInput, errors.New("hub type must be tenant or homeManager"))
}

// Stored is the homeType value written for the hub; home managers are admins.
func (t HubType) Stored() string {
	if t == HubHomeManager { return "admin" }
	return "tenant"
}

// Hub is an available hub as shown on the home screen.
type Hub struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	LinkCode string `json:"linkCode"`
}

func hubFromRecord(r Record) Hub {
	return Hub{ID: r.ID, Name: r.Text("homeName"), Type: r.Text("homeType"), LinkCode: r.Text(HubCodeField)}
}

// newHubFields builds a new hub document. userId stays empty until the hub is claimed.
func newHubFields(name string, t HubType, code string) map[string]any {
	return map[string]any{
		"homeName":   name,
		"homeType":   t.Stored(),
		HubCodeField: code,
		"userId":     "",
		"image":      "",
		"pinned":     false,
		"unitName":   "",
		"units":      []any{},
	}
}

// Device is a device record as shown on the home and detail screens.
type Device struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	LinkCode string `json:"linkCode"`
	HubCode  string `json:"hubCode"`
	On       bool   `json:"on"`
	Pinned   bool   `json:"pinned"`
}

func deviceFromRecord(r Record) Device {
	return Device{
		ID:       r.ID,
		Name:     r.Text("deviceName"),
		Type:     r.Text("deviceType"),
		LinkCode: r.Text(DeviceCodeField),
		HubCode:  r.Text("hubCode"),
		On:       r.Bool("on"),
		Pinned:   r.Bool("pinned"),
	}
}

// DeviceType describes one entry of the device catalog.
type DeviceType struct {
	ID   string
	Name string
	Icon string
	// Defaults are the type-specific attributes written at creation.
	Defaults map[string]any
}

var deviceCatalog = []DeviceType{
	{ID: "ac", Name: "Air Conditioner", Icon: "❄️", Defaults: map[string]any{"temp": "", "windMode": "", "autoMode": ""}},
	{ID: "dishwasher", Name: "Dishwasher", Icon: "🧼", Defaults: map[string]any{"length": "", "soap": false, "waterTemp": ""}},
	{ID: "fan", Name: "Fan", Icon: "🌀", Defaults: map[string]any{"rpm": ""}},
	{ID: "heatconvector", Name: "Heat Convector", Icon: "🔥", Defaults: map[string]any{"temp": ""}},
	{ID: "light", Name: "Light", Icon: "💡", Defaults: map[string]any{"brightness": "", "brightnessMode": ""}},
	{ID: "smartdoor", Name: "Smart Door", Icon: "🚪", Defaults: map[string]any{"locked": false}},
	{ID: "speaker", Name: "Speaker", Icon: "🔊", Defaults: map[string]any{"volume": ""}},
	{ID: "thermostat", Name: "Thermostat", Icon: "🌡️", Defaults: map[string]any{"temp": "", "autoMode": ""}},
	{ID: "tv", Name: "TV", Icon: "📺", Defaults: map[string]any{"volume": "", "brightness": ""}},
	{ID: "washingmachine", Name: "Washing Machine", Icon: "👕", Defaults: map[string]any{"length": "", "soap": false, "waterTemp": ""}},
}

// DeviceTypes lists the catalog in display order.
func DeviceTypes() []DeviceType {
	out := make([]DeviceType, len(deviceCatalog))
	copy(out, deviceCatalog)
	return out
}

// LookupDeviceType finds a catalog entry by id.
func LookupDeviceType(id string) (DeviceType, bool) {
	for _, t := range deviceCatalog {
		if t.ID == id { return t, true }
	}
	return DeviceType{}, false
}

// DeviceTypeName returns the display name for id, or id itself when unknown.
func DeviceTypeName(id string) string {
	if t, ok := LookupDeviceType(id); ok { return t.Name }
	return id
}

func newDeviceFields(name string, t DeviceType, code string) map[string]any {
	d := map[string]any{
		"deviceName":    name,
		"deviceType":    t.ID,
		DeviceCodeField: code,
		"hubCode":       "",
		"on":            false,
		"pinned":        false,
	}
	for k, v := range t.Defaults {
		d[k] = v
	}
	return d
}
