package internal

import (
	"context"
	"embed"
	"encoding/base64"
	"errors"
	"html/template"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

const sessionCookie = "devportal_session"

// Server serves the portal pages and the JSON API.
type Server struct {
	P        *Portal
	Auth     *Auth
	QRSecret string
	Origins  []string
	nowFunc  func() time.Time
	engine   *gin.Engine
}

func NewServer(p *Portal, a *Auth, cfg Config) *Server {
	s := &Server{P: p, Auth: a, QRSecret: cfg.QRSecret, Origins: cfg.AllowedOrigins, nowFunc: time.Now}
	s.engine = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("SetTrustedProxies: %v", err)
	}
	r.Use(gin.LoggerWithWriter(log.Writer()), gin.Recovery())
	r.SetHTMLTemplate(template.Must(template.New("").ParseFS(templatesFS, "templates/*.tmpl")))

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/login", s.loginPage)
	r.POST("/login", s.login)

	app := r.Group("/", s.requireSession(false))
	app.POST("/logout", s.logout)
	app.GET("/", s.home)
	app.GET("/add-hub", s.addHubPage)
	app.POST("/add-hub", s.addHub)
	app.GET("/add-device", s.addDevicePage)
	app.POST("/add-device", s.addDevice)
	app.POST("/hubs/:id/delete", s.deleteRecord(KindHub))
	app.POST("/devices/:id/delete", s.deleteRecord(KindDevice))
	app.GET("/device/:id", s.devicePage)
	app.POST("/device/:id/qr", s.deviceQR)
	app.GET("/device/:id/qr.png", s.deviceQRPNG)
	app.GET("/device/:id/qr/print", s.deviceQRPrint)

	api := r.Group("/api", s.requireSession(true))
	api.GET("/items", s.apiItems)
	api.GET("/link-code", s.apiLinkCode)

	r.NoRoute(func(c *gin.Context) { c.Redirect(http.StatusFound, "/") })
	return r
}

// Handler returns the portal handler; /api/ requests pass through CORS.
func (s *Server) Handler() http.Handler {
	var api http.Handler = s.engine
	// rs/cors treats an empty origin list as "*"; only enable it when configured.
	if len(s.Origins) > 0 {
		api = cors.New(cors.Options{
			AllowedOrigins:   s.Origins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete},
			AllowCredentials: true,
		}).Handler(s.engine)
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			api.ServeHTTP(w, r)
			return
		}
		s.engine.ServeHTTP(w, r)
	})
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(sctx)
	}()
	log.Printf("dev portal listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) requireSession(api bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(sessionCookie)
		email, ok := s.Auth.Session(token)
		if !ok {
			if api {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			} else {
				c.Redirect(http.StatusFound, "/login")
				c.Abort()
			}
			return
		}
		c.Set("email", email)
		c.Next()
	}
}

func (s *Server) loginPage(c *gin.Context) {
	if token, err := c.Cookie(sessionCookie); err == nil {
		if _, ok := s.Auth.Session(token); ok {
			c.Redirect(http.StatusFound, "/")
			return
		}
	}
	c.HTML(http.StatusOK, "login.tmpl", gin.H{})
}

func (s *Server) login(c *gin.Context) {
	email := c.PostForm("email")
	token, err := s.Auth.Login(c.ClientIP(), email, c.PostForm("password"))
	if err != nil {
		code := http.StatusUnauthorized
		if errors.Is(err, ErrRateLimited) { code = http.StatusTooManyRequests }
		log.WithField("client", c.ClientIP()).Warnf("login failed: %v", err)
		c.HTML(code, "login.tmpl", gin.H{"Error": err.Error(), "LoginEmail": email})
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, token, int(s.Auth.ttl.Seconds()), "/", "", false, true)
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) logout(c *gin.Context) {
	token, _ := c.Cookie(sessionCookie)
	s.Auth.Logout(token)
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	c.Redirect(http.StatusSeeOther, "/login")
}

func (s *Server) page(c *gin.Context, code int, name string, data gin.H) {
	data["Email"] = c.GetString("email")
	c.HTML(code, name, data)
}

func (s *Server) home(c *gin.Context) {
	items, err := s.P.ListAvailable(c.Request.Context())
	data := gin.H{"Items": items}
	if err != nil {
		log.Errorf("error fetching available items: %v", err)
		data["Error"] = "Could not load available items."
	}
	s.page(c, http.StatusOK, "home.tmpl", data)
}

func (s *Server) addHubPage(c *gin.Context) {
	s.page(c, http.StatusOK, "add_hub.tmpl", gin.H{"HubType": string(HubTenant)})
}

func (s *Server) addHub(c *gin.Context) {
	name := c.PostForm("hubName")
	data := gin.H{"HubName": name, "HubType": c.PostForm("hubType")}
	t, err := ParseHubType(c.PostForm("hubType"))
	if err != nil {
		data["Error"] = "Choose a tenant or home manager hub."
		s.page(c, http.StatusBadRequest, "add_hub.tmpl", data)
		return
	}
	created, err := s.P.CreateHub(c.Request.Context(), name, t)
	if err != nil {
		log.Errorf("failed to create hub: %v", err)
		code, msg := createFailure(err)
		data["Error"] = msg
		s.page(c, code, "add_hub.tmpl", data)
		return
	}
	s.page(c, http.StatusOK, "add_hub.tmpl", gin.H{"Created": created})
}

func (s *Server) addDevicePage(c *gin.Context) {
	s.page(c, http.StatusOK, "add_device.tmpl", gin.H{"Types": DeviceTypes(), "DeviceType": ""})
}

func (s *Server) addDevice(c *gin.Context) {
	name, typ := c.PostForm("deviceName"), c.PostForm("deviceType")
	created, err := s.P.CreateDevice(c.Request.Context(), name, typ)
	if err != nil {
		log.Errorf("failed to create device: %v", err)
		code, msg := createFailure(err)
		s.page(c, code, "add_device.tmpl", gin.H{"Types": DeviceTypes(), "DeviceName": name, "DeviceType": typ, "Error": msg})
		return
	}
	s.page(c, http.StatusOK, "add_device.tmpl", gin.H{"Created": created})
}

// createFailure maps a create error to a status and a message for the form.
func createFailure(err error) (int, string) {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrUnknownDeviceType):
		return http.StatusBadRequest, "Enter a name and choose a type."
	case errors.Is(err, ErrRetrievalFailed), errors.Is(err, ErrGenerationExhausted):
		return http.StatusServiceUnavailable, "Failed to generate link code. Please try again."
	}
	return http.StatusInternalServerError, "Something went wrong. Please try again."
}

func (s *Server) deleteRecord(k Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := s.P.Delete(c.Request.Context(), k, c.Param("id")); err != nil {
			log.Errorf("error deleting item: %v", err)
		}
		c.Redirect(http.StatusSeeOther, "/")
	}
}

// loadDevice fetches the :id device, rendering the not-found page on failure.
func (s *Server) loadDevice(c *gin.Context) (Device, bool) {
	d, err := s.P.Device(c.Request.Context(), c.Param("id"))
	if err != nil {
		code := http.StatusInternalServerError
		msg := "Could not load device."
		if errors.Is(err, ErrNotFound) {
			code, msg = http.StatusNotFound, "Device not found"
		} else {
			log.Errorf("load device: %v", err)
		}
		s.page(c, code, "device.tmpl", gin.H{"Error": msg})
		return Device{}, false
	}
	return d, true
}

// pairingToken reuses the t query/form value when it is a valid token for d.
func (s *Server) pairingToken(c *gin.Context, d Device) (string, error) {
	if t := c.Query("t"); t != "" {
		if claims, ok := ParsePairingToken(t, s.QRSecret); ok && claims.DeviceID == d.ID {
			return t, nil
		}
	}
	return PairingToken(d, s.QRSecret, s.nowFunc())
}

func (s *Server) devicePage(c *gin.Context) {
	d, ok := s.loadDevice(c)
	if !ok { return }
	s.page(c, http.StatusOK, "device.tmpl", gin.H{"Device": d, "Category": DeviceTypeName(d.Type)})
}

func (s *Server) deviceQR(c *gin.Context) {
	d, ok := s.loadDevice(c)
	if !ok { return }
	token, err := PairingToken(d, s.QRSecret, s.nowFunc())
	data := gin.H{"Device": d, "Category": DeviceTypeName(d.Type)}
	if err == nil {
		var png []byte
		if png, err = QRPNG(token); err == nil {
			data["Token"] = token
			data["QRDataURI"] = template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png))
		}
	}
	if err != nil {
		log.Errorf("failed to generate QR code: %v", err)
		data["Error"] = "Failed to generate QR code."
	}
	s.page(c, http.StatusOK, "device.tmpl", data)
}

func (s *Server) deviceQRPNG(c *gin.Context) {
	d, ok := s.loadDevice(c)
	if !ok { return }
	token, err := s.pairingToken(c, d)
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to generate QR code")
		return
	}
	png, err := QRPNG(token)
	if err != nil {
		log.Errorf("encode QR for %s: %v", d.ID, err)
		c.String(http.StatusInternalServerError, "failed to generate QR code")
		return
	}
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": QRFileName(d.Name)}))
	c.Data(http.StatusOK, "image/png", png)
}

func (s *Server) deviceQRPrint(c *gin.Context) {
	d, ok := s.loadDevice(c)
	if !ok { return }
	token, err := s.pairingToken(c, d)
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to generate QR code")
		return
	}
	c.HTML(http.StatusOK, "print.tmpl", gin.H{"Device": d, "Category": DeviceTypeName(d.Type), "Token": token})
}

func (s *Server) apiItems(c *gin.Context) {
	items, err := s.P.ListAvailable(c.Request.Context())
	if err != nil {
		log.Errorf("api items: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch available items"})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (s *Server) apiLinkCode(c *gin.Context) {
	k, err := ParseKind(c.DefaultQuery("collection", "devices"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	code, err := s.P.PreviewLinkCode(c.Request.Context(), k)
	if err != nil {
		log.Errorf("api link code: %v", err)
		code, msg := createFailure(err)
		c.JSON(code, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusOK, gin.H{"linkCode": code.Code, "attempts": code.Attempts})
}
