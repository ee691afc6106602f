package main

import (
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/bhuvan2018/Portfolio/internal/assistant"
	"github.com/bhuvan2018/Portfolio/internal/contact"
	"github.com/bhuvan2018/Portfolio/internal/content"
	"github.com/bhuvan2018/Portfolio/internal/identity"
	"github.com/bhuvan2018/Portfolio/internal/kv"
	"github.com/bhuvan2018/Portfolio/internal/visits"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// server holds everything the routes need.
type server struct {
	log       *zap.Logger
	portfolio *content.Portfolio
	profiles  kv.Store
	sessions  kv.Store
	counter   *visits.Counter
	chats     *assistant.Hub
	contact   *contact.Service
	admin     *adminAuth
	tally     kv.Tallier
	purger    purger

	corsOrigins  []string
	secure       bool
	startedAt    time.Time
	contactSent  atomic.Int64
	contactFails atomic.Int64
}

func (s *server) profileStore(c *gin.Context) kv.Store {
	return kv.Scoped(s.profiles, "profile:"+identity.ProfileID(c))
}

func (s *server) sessionStore(c *gin.Context) kv.Store {
	return kv.Scoped(s.sessions, "session:"+identity.SessionID(c))
}

func (s *server) router() (*gin.Engine, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.log, s.admin.hashIP))
	if len(s.corsOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     s.corsOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "hx-current-url", "hx-request", "hx-target", "hx-trigger"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	r.SetHTMLTemplate(tmpl)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	s.setupAdminRoutes(r)

	site := r.Group("/", identity.Middleware(s.secure))

	// Home page route
	site.GET("/", s.handleHome)

	// Visitor counter, mounted once per page load
	site.GET("/visitor-counter", s.handleVisitorCounter)

	// Work experience and education fragments
	site.GET("/work-content", func(c *gin.Context) {
		c.HTML(http.StatusOK, "work-content.html", gin.H{
			"heading":    ExperienceHeading,
			"experience": s.portfolio.Experience,
		})
	})
	site.GET("/education-content", func(c *gin.Context) {
		c.HTML(http.StatusOK, "education-content.html", gin.H{
			"heading":   EducationHeading,
			"education": s.portfolio.Education,
		})
	})
	site.GET("/projects/:id", s.handleProject)

	// HTMX Contact form endpoint - returns just the form HTML
	site.GET("/contact-form", func(c *gin.Context) {
		c.HTML(http.StatusOK, "contact.html", gin.H{"title": "Contact Me", "form": contact.Form{}})
	})
	site.POST("/contact", s.handleContact)

	site.POST("/theme/toggle", s.handleThemeToggle)

	chat := site.Group("/chat")
	chat.GET("", s.handleChat)
	chat.POST("/open", s.handleChatOpen)
	chat.POST("/close", s.handleChatClose)
	chat.POST("/message", s.handleChatMessage)

	return r, nil
}

func (s *server) handleHome(c *gin.Context) {
	// A full page load starts the chat over, closed with only the greeting.
	s.chats.Reset(identity.SessionID(c))

	theme := currentTheme(c.Request.Context(), s.profileStore(c), c.GetHeader("Sec-CH-Prefers-Color-Scheme"))

	c.Header("Accept-CH", "Sec-CH-Prefers-Color-Scheme")
	c.HTML(http.StatusOK, "index.html", gin.H{
		"theme":     theme,
		"portfolio": s.portfolio,
		"text": gin.H{
			"aboutHeading":    AboutHeading,
			"aboutIntro":      AboutIntro,
			"skillsHeading":   SkillsHeading,
			"skillsIntro":     SkillsIntro,
			"projectsHeading": ProjectsHeading,
			"projectsIntro":   ProjectsIntro,
			"contactBadge":    ContactBadge,
			"contactHeading":  ContactHeading,
			"contactIntro":    ContactIntro,
		},
		"year": time.Now().Year(),
	})
}

func (s *server) handleVisitorCounter(c *gin.Context) {
	d := s.counter.Mount(c.Request.Context(), s.profileStore(c), s.sessionStore(c))

	c.HTML(http.StatusOK, "visitor-counter.html", gin.H{
		"label":     d.Label(),
		"count":     d.Count,
		"visibleMs": d.Visible.Milliseconds(),
	})
}

func (s *server) handleProject(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err == nil {
		for _, p := range s.portfolio.Projects {
			if p.ID == id {
				c.HTML(http.StatusOK, "project.html", gin.H{"project": p})
				return
			}
		}
	}
	c.String(http.StatusNotFound, "project not found")
}

// Handle contact form submission with HTMX
func (s *server) handleContact(c *gin.Context) {
	var form contact.Form
	if err := c.ShouldBind(&form); err != nil {
		c.HTML(http.StatusOK, "contact.html", gin.H{
			"title":  "Contact Me",
			"form":   form,
			"fields": contact.FieldErrors(err),
		})
		return
	}

	if err := s.contact.Submit(c.Request.Context(), form); err != nil {
		s.contactFails.Add(1)
		// Keep what the visitor typed so they can resubmit.
		c.HTML(http.StatusOK, "contact.html", gin.H{
			"title": "Contact Me",
			"form":  form,
			"error": contact.ErrorMessage,
		})
		return
	}

	s.contactSent.Add(1)
	c.HTML(http.StatusOK, "contact-success.html", gin.H{
		"success": contact.SuccessMessage,
	})
}

func (s *server) handleThemeToggle(c *gin.Context) {
	theme, err := toggleTheme(c.Request.Context(), s.profileStore(c), c.GetHeader("Sec-CH-Prefers-Color-Scheme"))
	if err != nil {
		s.log.Warn("failed to store theme preference", zap.Error(err))
	}
	c.JSON(http.StatusOK, gin.H{"theme": theme})
}

func (s *server) renderChat(c *gin.Context, w *assistant.Widget) {
	state := w.State()
	c.HTML(http.StatusOK, "chat.html", gin.H{
		"title":       ChatTitle,
		"placeholder": ChatPlaceholder,
		"open":        state != assistant.Closed,
		"awaiting":    state == assistant.AwaitingResponse,
		"state":       state.String(),
		"turns":       w.Turns(),
	})
}

func (s *server) handleChat(c *gin.Context) {
	s.renderChat(c, s.chats.Widget(identity.SessionID(c)))
}

func (s *server) handleChatOpen(c *gin.Context) {
	w := s.chats.Widget(identity.SessionID(c))
	w.Open()
	s.renderChat(c, w)
}

func (s *server) handleChatClose(c *gin.Context) {
	w := s.chats.Widget(identity.SessionID(c))
	w.Close()
	s.renderChat(c, w)
}

func (s *server) handleChatMessage(c *gin.Context) {
	w := s.chats.Widget(identity.SessionID(c))
	w.Send(c.PostForm("message"))
	s.renderChat(c, w)
}

func requestLogger(log *zap.Logger, hashIP func(string) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client", hashIP(c.ClientIP())),
		)
	}
}
