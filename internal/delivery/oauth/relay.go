package oauth

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AI-Powered-Itinerary-Planner/voyage-client/internal/auth"
	"github.com/AI-Powered-Itinerary-Planner/voyage-client/internal/config"
)

// Relay is a loopback HTTP listener for the Google sign-in handoff.
// It serves a small page that loads the Google Identity Services widget
// and receives the credential the widget posts back, forwarding it to
// the auth coordinator.
type Relay struct {
	httpServer *http.Server
	config     *config.RelayConfig
}

type relayHandler struct {
	coordinator *auth.Coordinator
	clientID    string
	callbackURL string
}

var signInPage = template.Must(template.New("signin").Parse(`<!DOCTYPE html>
<html>
<head>
  <title>Sign in</title>
  <script src="https://accounts.google.com/gsi/client" async defer></script>
</head>
<body>
  <div id="g_id_onload"
       data-client_id="{{.ClientID}}"
       data-login_uri="{{.CallbackURL}}"
       data-ux_mode="redirect"></div>
  <div class="g_id_signin" data-type="standard"></div>
</body>
</html>
`))

// NewRelay creates the relay server with its routes set up.
func NewRelay(cfg *config.RelayConfig, google *config.GoogleConfig, coordinator *auth.Coordinator) *Relay {
	h := &relayHandler{
		coordinator: coordinator,
		clientID:    google.ClientID,
		callbackURL: fmt.Sprintf("http://%s/auth/google/callback", cfg.GetAddr()),
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.Default()

	healthHandler := func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)

	router.GET("/", h.SignInPage)
	router.POST("/auth/google/callback", h.GoogleCallback)

	return &Relay{
		httpServer: &http.Server{
			Addr:           cfg.GetAddr(),
			Handler:        router,
			ReadTimeout:    cfg.ReadTimeout,
			WriteTimeout:   cfg.WriteTimeout,
			MaxHeaderBytes: 1 << 20, // 1 MB
		},
		config: cfg,
	}
}

// URL returns the address to open in a browser to start the sign-in.
func (r *Relay) URL() string {
	return fmt.Sprintf("http://%s/", r.config.GetAddr())
}

// SignInPage serves the page hosting the Google sign-in widget.
func (h *relayHandler) SignInPage(c *gin.Context) {
	if h.clientID == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "google sign-in is not configured",
		})
		return
	}
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	_ = signInPage.Execute(c.Writer, gin.H{
		"ClientID":    h.clientID,
		"CallbackURL": h.callbackURL,
	})
}

// GoogleCallback receives the credential posted by the widget. The
// widget redirect mode posts a form; a JSON body with the same field is
// accepted too.
func (h *relayHandler) GoogleCallback(c *gin.Context) {
	credential := c.PostForm("credential")
	if credential == "" {
		var body struct {
			Credential string `json:"credential"`
		}
		if err := c.ShouldBindJSON(&body); err == nil {
			credential = body.Credential
		}
	}
	if credential == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "missing credential",
		})
		return
	}

	res, err := h.coordinator.GoogleSignIn(c.Request.Context(), credential)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"name":        res.Profile.Name,
		"is_new_user": res.IsNewUser,
	})
}

// Start starts the relay listener
func (r *Relay) Start() error {
	fmt.Printf("Starting sign-in relay on %s\n", r.config.GetAddr())

	if err := r.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start relay: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the relay
func (r *Relay) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := r.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("relay shutdown failed: %w", err)
	}

	return nil
}
