package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pahanabooks/console-api/internal/application/service"
	"github.com/pahanabooks/console-api/internal/presentation/http/dto/request"
	"github.com/pahanabooks/console-api/internal/presentation/http/dto/response"
	"github.com/pahanabooks/console-api/pkg/pagination"
)

// BlogHandler serves the storefront blog
type BlogHandler struct {
	blogService *service.BlogService
}

// NewBlogHandler creates a new blog handler
func NewBlogHandler(blogService *service.BlogService) *BlogHandler {
	return &BlogHandler{blogService: blogService}
}

// List returns one page of posts
// @Summary List blog posts
// @Tags Blog
// @Param search query string false "Search title, summary and content"
// @Param tag query string false "Tag"
// @Param featured query bool false "Featured posts only"
// @Router /blog [get]
func (h *BlogHandler) List(c *gin.Context) {
	var req request.BlogFilterRequest
	if !bindQuery(c, &req) {
		return
	}
	params := pagination.DefaultPagination()
	if req.Page > 0 {
		params.Page = req.Page
	}
	if req.PerPage > 0 {
		params.PerPage = req.PerPage
	}

	result, err := h.blogService.List(c.Request.Context(), service.BlogFilter{
		Search:   req.Search,
		Tag:      req.Tag,
		Featured: req.Featured,
	}, params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, "Blog posts retrieved successfully", result)
}

// Popular returns the most read posts
func (h *BlogHandler) Popular(c *gin.Context) {
	posts, err := h.blogService.Popular(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Popular posts retrieved successfully", posts)
}

// Get returns one post
func (h *BlogHandler) Get(c *gin.Context) {
	post, err := h.blogService.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Blog post retrieved successfully", post)
}

// Related returns posts related to one post
func (h *BlogHandler) Related(c *gin.Context) {
	posts, err := h.blogService.Related(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Related posts retrieved successfully", posts)
}

// Tags returns the tag cloud
func (h *BlogHandler) Tags(c *gin.Context) {
	tags, err := h.blogService.Tags(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Tags retrieved successfully", tags)
}
