package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/prasetyoadi/admin-directory/internal/application"
	"github.com/prasetyoadi/admin-directory/internal/domain/entity"
	"github.com/prasetyoadi/admin-directory/pkg/response"
	"github.com/prasetyoadi/admin-directory/pkg/validation"
)

type UserHandler struct {
	Users  *application.UserService
	Search *application.SearchService
	Logger *logrus.Logger
}

func NewUserHandler(users *application.UserService, search *application.SearchService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Users: users, Search: search, Logger: logger}
}

type addressRequest struct {
	Country  string `json:"country" binding:"required,max=100"`
	City     string `json:"city" binding:"required,max=100"`
	PostCode string `json:"post_code" binding:"required,max=20"`
	Street   string `json:"street" binding:"required,max=255"`
}

type userRequest struct {
	FirstName string         `json:"first_name" binding:"required,max=100"`
	LastName  string         `json:"last_name" binding:"required,max=100"`
	Email     string         `json:"email" binding:"required,email,max=255"`
	Address   addressRequest `json:"address" binding:"required"`
}

func (r userRequest) inputs() (application.UserInput, application.AddressInput) {
	return application.UserInput{
			FirstName: r.FirstName,
			LastName:  r.LastName,
			Email:     r.Email,
		}, application.AddressInput{
			Country:  r.Address.Country,
			City:     r.Address.City,
			PostCode: r.Address.PostCode,
			Street:   r.Address.Street,
		}
}

func queryInt(c *gin.Context, name string) int {
	n, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return 0
	}
	return n
}

// Dashboard returns the paginated directory plus the unread notification
// feed in one payload. It always answers 200.
func (h *UserHandler) Dashboard(c *gin.Context) {
	data := h.Users.DashboardData(c.Request.Context(), c.Query("q"), queryInt(c, "per_page"), queryInt(c, "page"))
	response.Success(c, http.StatusOK, data, "dashboard", paginationMeta(data.Users))
}

// Index returns one page of users matching the optional q parameter.
func (h *UserHandler) Index(c *gin.Context) {
	page, err := h.Search.Paginated(c.Request.Context(), c.Query("q"), queryInt(c, "per_page"), queryInt(c, "page"))
	if err != nil {
		h.Logger.WithError(err).Error("user index failed")
		page = &entity.UserPage{Items: []entity.User{}, Search: c.Query("q")}
	}
	response.Success(c, http.StatusOK, page.Items, "users", paginationMeta(page))
}

// SearchCollection returns a flat list of matches without pagination metadata.
func (h *UserHandler) SearchCollection(c *gin.Context) {
	users, err := h.Search.SearchCollection(c.Request.Context(), c.Query("q"), queryInt(c, "limit"))
	if err != nil {
		h.Logger.WithError(err).Error("user search failed")
		users = []entity.User{}
	}
	if users == nil {
		users = []entity.User{}
	}
	response.Success(c, http.StatusOK, users, "search results", map[string]any{"count": len(users)})
}

// Export streams every match as newline-delimited JSON, in ascending id
// order, without buffering the full set.
func (h *UserHandler) Export(c *gin.Context) {
	c.Header("Content-Type", "application/x-ndjson")
	c.Status(http.StatusOK)

	enc := json.NewEncoder(c.Writer)
	it := h.Search.Stream(c.Request.Context(), c.Query("q"))
	for it.Next() {
		u := it.User()
		if err := enc.Encode(u); err != nil {
			h.Logger.WithError(err).Warn("user export write failed")
			return
		}
		c.Writer.Flush()
	}
	if err := it.Err(); err != nil {
		// Headers are already out; all we can do is cut the stream.
		h.Logger.WithError(err).Error("user export aborted")
	}
}

// Show returns a single user with address.
func (h *UserHandler) Show(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid user id", nil)
		return
	}
	user, err := h.Users.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, user, "user", nil)
}

// Store creates a user together with its address.
func (h *UserHandler) Store(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	in, addr := req.inputs()
	user, err := h.Users.CreateWithAddress(c.Request.Context(), in, addr)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, user, "user created", nil)
}

// Update overwrites a user and its address.
func (h *UserHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid user id", nil)
		return
	}
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	in, addr := req.inputs()
	user, err := h.Users.UpdateWithAddress(c.Request.Context(), id, in, addr)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, user, "user updated", nil)
}

// Destroy deletes a user; the address row is removed by cascade.
func (h *UserHandler) Destroy(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid user id", nil)
		return
	}
	if err := h.Users.Delete(c.Request.Context(), id); err != nil {
		h.respondServiceError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"deleted": true}, "user deleted", nil)
}

// ClearSearchCache drops every cached search result. The optional q
// parameter is logged for operator context only.
func (h *UserHandler) ClearSearchCache(c *gin.Context) {
	if err := h.Search.ClearCache(c.Request.Context(), c.Query("q")); err != nil {
		response.Error[any](c, http.StatusInternalServerError, "cache clear failed", nil)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"cleared": true}, "search cache cleared", nil)
}

func (h *UserHandler) respondServiceError(c *gin.Context, err error) {
	if errors.Is(err, application.ErrUserNotFound) {
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
		return
	}
	response.Error[any](c, http.StatusInternalServerError, "operation failed", nil)
}

func paginationMeta(page *entity.UserPage) map[string]any {
	if page == nil {
		return nil
	}
	return map[string]any{
		"page":        page.Page,
		"per_page":    page.PerPage,
		"total":       page.Total,
		"total_pages": page.TotalPages,
		"search":      page.Search,
	}
}
