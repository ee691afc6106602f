// admin.go - privacy-conscious admin dashboard over the visit tallies
package main

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bhuvan2018/Portfolio/internal/config"
	"github.com/bhuvan2018/Portfolio/internal/visits"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	adminCookie   = "admin_token"
	adminTokenTTL = 24 * time.Hour

	// Profiles untouched for this long are removed, matching the 12 month
	// lifetime of the profile cookie.
	defaultRetention = 365 * 24 * time.Hour
)

// purger removes stored visitor data that has not been written recently.
type purger interface {
	PurgeOlderThan(ctx context.Context, age time.Duration) (int64, error)
}

// AdminStats is what the dashboard and the export show.
type AdminStats struct {
	Profiles       int64     `json:"profiles"`
	TotalVisits    int64     `json:"total_visits"`
	ActiveChats    int       `json:"active_chats"`
	ContactsSent   int64     `json:"contacts_sent"`
	ContactsFailed int64     `json:"contacts_failed"`
	Uptime         string    `json:"uptime"`
	GeneratedAt    time.Time `json:"generated_at"`
}

type adminAuth struct {
	username     string
	passwordHash []byte
	secret       []byte
	salt         string
	secure       bool
	log          *zap.Logger
}

// newAdminAuth hashes the configured password. Without ADMIN_JWT_SECRET a
// random secret is used, so sessions do not survive a restart.
func newAdminAuth(cfg config.AdminConfig, secure bool, log *zap.Logger) (*adminAuth, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}

	secret := cfg.JWTSecret
	if secret == "" {
		if secret, err = generateToken(); err != nil {
			return nil, err
		}
	}
	salt, err := generateToken()
	if err != nil {
		return nil, err
	}

	if cfg.Username == "admin" && cfg.Password == "admin123" {
		log.Warn("using default admin credentials, set ADMIN_USERNAME and ADMIN_PASSWORD")
	}

	return &adminAuth{
		username:     cfg.Username,
		passwordHash: hash,
		secret:       []byte(secret),
		salt:         salt,
		secure:       secure,
		log:          log,
	}, nil
}

func generateToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// Hash IP address for privacy compliance (consistent per IP within a run)
func (a *adminAuth) hashIP(ip string) string {
	hash := sha256.Sum256([]byte(ip + a.salt))
	return hex.EncodeToString(hash[:])[:16]
}

func (a *adminAuth) checkCredentials(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passOK := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password)) == nil
	return userOK && passOK
}

func (a *adminAuth) issueToken(now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   a.username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(adminTokenTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

func (a *adminAuth) verifyToken(raw string) error {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return err
	}
	if claims.Subject != a.username {
		return errors.New("token subject mismatch")
	}
	return nil
}

// Middleware to check admin authentication
func (a *adminAuth) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookie)
		if err != nil || a.verifyToken(token) != nil {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (s *server) adminStats(ctx context.Context) (*AdminStats, error) {
	stats := &AdminStats{
		ActiveChats:    s.chats.Active(),
		ContactsSent:   s.contactSent.Load(),
		ContactsFailed: s.contactFails.Load(),
		Uptime:         time.Since(s.startedAt).Truncate(time.Second).String(),
		GeneratedAt:    time.Now().UTC(),
	}

	if s.tally != nil {
		t, err := s.tally.Tally(ctx, ":"+visits.CountKey)
		if err != nil {
			return nil, err
		}
		stats.Profiles = t.Keys
		stats.TotalVisits = t.Total
	}
	return stats, nil
}

// cleanupOldProfiles drops profiles nobody has written to within age.
func (s *server) cleanupOldProfiles(ctx context.Context, age time.Duration) (int64, error) {
	if s.purger == nil {
		return 0, errors.New("the profile store does not support purging")
	}
	n, err := s.purger.PurgeOlderThan(ctx, age)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.Info("privacy cleanup removed stale entries", zap.Int64("removed", n), zap.Duration("older_than", age))
	}
	return n, nil
}

// Setup all admin routes
func (s *server) setupAdminRoutes(r *gin.Engine) {
	// Admin login page
	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{
			"title": "Admin Login",
		})
	})

	// Admin login handler
	r.POST("/admin/login", func(c *gin.Context) {
		client := s.admin.hashIP(c.ClientIP())

		if !s.admin.checkCredentials(c.PostForm("username"), c.PostForm("password")) {
			s.log.Warn("failed admin login attempt", zap.String("client", client))
			c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
				"title": "Admin Login",
				"error": "Invalid credentials",
			})
			return
		}

		token, err := s.admin.issueToken(time.Now())
		if err != nil {
			s.log.Error("failed to sign admin token", zap.Error(err))
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Login is unavailable right now",
			})
			return
		}

		c.SetSameSite(http.SameSiteStrictMode)
		c.SetCookie(adminCookie, token, int(adminTokenTTL.Seconds()), "/admin", "", s.admin.secure, true)
		s.log.Info("admin login successful", zap.String("client", client))
		c.Redirect(http.StatusFound, "/admin/dashboard")
	})

	// Admin logout
	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(adminCookie, "", -1, "/admin", "", s.admin.secure, true)
		s.log.Info("admin logout", zap.String("client", s.admin.hashIP(c.ClientIP())))
		c.Redirect(http.StatusFound, "/admin/login")
	})

	// Protected admin routes group
	adminGroup := r.Group("/admin")
	adminGroup.Use(s.admin.middleware())

	adminGroup.GET("/dashboard", func(c *gin.Context) {
		stats, err := s.adminStats(c.Request.Context())
		if err != nil {
			s.log.Error("error loading admin stats", zap.Error(err))
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load statistics",
			})
			return
		}

		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{
			"stats": stats,
		})
	})

	// Admin API endpoints for HTMX/AJAX
	adminGroup.GET("/api/stats", func(c *gin.Context) {
		stats, err := s.adminStats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	// Admin statistics export (for backups or analysis)
	adminGroup.GET("/export/stats", func(c *gin.Context) {
		stats, err := s.adminStats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
		s.log.Info("admin stats exported", zap.String("client", s.admin.hashIP(c.ClientIP())))
		c.JSON(http.StatusOK, stats)
	})

	// Remove profiles that have gone quiet
	adminGroup.POST("/privacy/purge", func(c *gin.Context) {
		age := defaultRetention
		if raw := c.PostForm("older_than"); raw != "" {
			d, err := time.ParseDuration(raw)
			if err != nil || d <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "older_than must be a positive duration such as 720h"})
				return
			}
			age = d
		}

		n, err := s.cleanupOldProfiles(c.Request.Context(), age)
		if err != nil {
			c.JSON(http.StatusNotImplemented, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Privacy cleanup complete", "removed": n})
	})
}
