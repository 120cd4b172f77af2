package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"activity-tracker/internal/domain"
	"activity-tracker/internal/metrics"
	"activity-tracker/internal/service"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler wires HTTP routes to domain services.
type Handler struct {
	users     service.UserService
	events    service.EventService
	analytics service.AnalyticsService
	snapshots service.SnapshotService
	store     Pinger
	logger    logrus.FieldLogger
}

func NewHandler(
	users service.UserService,
	events service.EventService,
	analytics service.AnalyticsService,
	snapshots service.SnapshotService,
	store Pinger,
	logger logrus.FieldLogger,
) *Handler {
	registerTagNames()
	return &Handler{
		users:     users,
		events:    events,
		analytics: analytics,
		snapshots: snapshots,
		store:     store,
		logger:    logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware(), requestIDMiddleware(), accessLogMiddleware(h.logger), metricsMiddleware())

	users := router.Group("/users")
	{
		users.POST("", h.createUser)
		users.GET("", h.listUsers)
	}

	events := router.Group("/events")
	{
		events.POST("", h.createEvent)
		events.GET("", h.listEvents)
	}

	analytics := router.Group("/analytics")
	{
		analytics.GET("/events-summary", h.eventsSummary)
		analytics.GET("/user-activity", h.userActivity)
		analytics.POST("/snapshots", h.createSnapshot)
		analytics.GET("/snapshots", h.listSnapshots)
	}

	router.GET("/health", h.health)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
}

type createUserRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required"`
	Role  string `json:"role" binding:"omitempty,oneof=admin member"`
}

func (h *Handler) createUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, bindError(err))
		return
	}

	user, err := h.users.CreateUser(c.Request.Context(), service.CreateUserInput{
		Name:  req.Name,
		Email: req.Email,
		Role:  req.Role,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, userToResponse(*user))
}

func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.users.ListUsers(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := make([]UserResponse, len(users))
	for i := range users {
		resp[i] = userToResponse(users[i])
	}
	c.JSON(http.StatusOK, resp)
}

type createEventRequest struct {
	UserID    string          `json:"userId"`
	EventType string          `json:"eventType"`
	Metadata  domain.Metadata `json:"metadata"`
}

func (h *Handler) createEvent(c *gin.Context) {
	var req createEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, bindError(err))
		return
	}

	event, err := h.events.CreateEvent(c.Request.Context(), service.CreateEventInput{
		UserID:    req.UserID,
		EventType: req.EventType,
		Metadata:  req.Metadata,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, eventToResponse(*event))
}

type listEventsQuery struct {
	UserID    string `form:"userId"`
	EventType string `form:"eventType"`
	StartTime string `form:"startTime"`
	EndTime   string `form:"endTime"`
}

func (h *Handler) listEvents(c *gin.Context) {
	var q listEventsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.writeError(c, bindError(err))
		return
	}

	events, err := h.events.ListEvents(c.Request.Context(), service.ListEventsParams{
		UserID:    q.UserID,
		EventType: q.EventType,
		StartTime: q.StartTime,
		EndTime:   q.EndTime,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := make([]EventResponse, len(events))
	for i := range events {
		resp[i] = eventToResponse(events[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) eventsSummary(c *gin.Context) {
	summary, err := h.analytics.EventsSummary(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) userActivity(c *gin.Context) {
	activity, err := h.analytics.UserActivity(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := make([]UserActivityResponse, len(activity))
	for i := range activity {
		resp[i] = activityToResponse(activity[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) createSnapshot(c *gin.Context) {
	snapshot, err := h.snapshots.CreateSnapshot(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, snapshotToResponse(*snapshot))
}

func (h *Handler) listSnapshots(c *gin.Context) {
	objects, err := h.snapshots.ListSnapshots(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := make([]StorageObjectResponse, len(objects))
	for i := range objects {
		resp[i] = objectToResponse(objects[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.logger.WithError(err).Warn("health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
