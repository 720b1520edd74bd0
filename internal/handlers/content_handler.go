package handlers

import (
	"context"
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/sunrise-classroom/content-portal/internal/auth"
	"github.com/sunrise-classroom/content-portal/internal/catalog"
	"github.com/sunrise-classroom/content-portal/internal/utils"
)

// ContentService is what the handlers need from the catalog layer.
type ContentService interface {
	List(ctx context.Context) ([]catalog.Item, error)
	Upload(ctx context.Context, filename string, data []byte, meta catalog.Metadata) (*catalog.Item, error)
	UpdateMetadata(ctx context.Context, publicID string, meta catalog.Metadata) error
	Delete(ctx context.Context, publicID string) error
}

type Handler struct {
	svc      ContentService
	tokens   *auth.TokenIssuer
	maxBytes int64
	log      *zap.SugaredLogger
}

func NewHandler(svc ContentService, tokens *auth.TokenIssuer, maxBytes int64, log *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, tokens: tokens, maxBytes: maxBytes, log: log}
}

// GET /api/health
func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// GET /api/content
func (h *Handler) ListContent(c *fiber.Ctx) error {
	items, err := h.svc.List(c.UserContext())
	if err != nil {
		h.log.Errorw("fetch content", "err", err)
		return utils.JSONError(c, fiber.StatusInternalServerError, "Failed to fetch content")
	}
	return c.JSON(fiber.Map{"resources": items})
}

// POST /api/upload (multipart: file + six metadata fields)
func (h *Handler) Upload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "No file uploaded")
	}
	if err := utils.ValidateUpload(fh, h.maxBytes); err != nil {
		if errors.Is(err, utils.ErrFileTooLarge) {
			return utils.JSONError(c, fiber.StatusRequestEntityTooLarge, "File too large")
		}
		return utils.JSONError(c, fiber.StatusBadRequest, "No file uploaded")
	}

	f, err := fh.Open()
	if err != nil {
		h.log.Errorw("open upload", "err", err)
		return utils.JSONError(c, fiber.StatusInternalServerError, "Failed to upload file")
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		h.log.Errorw("read upload", "err", err)
		return utils.JSONError(c, fiber.StatusInternalServerError, "Failed to upload file")
	}

	meta := catalog.Metadata{
		Title:       c.FormValue("title"),
		Teacher:     c.FormValue("teacher"),
		Subject:     c.FormValue("subject"),
		ClassName:   c.FormValue("className"),
		Description: c.FormValue("description"),
		FileType:    c.FormValue("fileType"),
	}
	item, err := h.svc.Upload(c.UserContext(), fh.Filename, data, meta)
	if err != nil {
		h.log.Errorw("upload", "filename", fh.Filename, "err", err)
		return utils.JSONError(c, fiber.StatusInternalServerError, "Failed to upload file")
	}
	return c.JSON(fiber.Map{"success": true, "resource": item})
}

type updateRequest struct {
	PublicID     string `json:"public_id"`
	ResourceType string `json:"resource_type"`
	Title        string `json:"title"`
	Teacher      string `json:"teacher"`
	ClassName    string `json:"className"`
	Subject      string `json:"subject"`
	Description  string `json:"description"`
	FileType     string `json:"fileType"`
}

// PUT /api/content
func (h *Handler) UpdateContent(c *fiber.Ctx) error {
	var req updateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.PublicID == "" {
		return utils.JSONError(c, fiber.StatusBadRequest, "Missing public_id")
	}
	meta := catalog.Metadata{
		Title:       req.Title,
		Teacher:     req.Teacher,
		Subject:     req.Subject,
		ClassName:   req.ClassName,
		Description: req.Description,
		FileType:    req.FileType,
	}
	if err := h.svc.UpdateMetadata(c.UserContext(), req.PublicID, meta); err != nil {
		h.log.Errorw("update content", "public_id", req.PublicID, "err", err)
		return utils.JSONError(c, fiber.StatusInternalServerError, "Failed to update content")
	}
	return c.JSON(fiber.Map{"success": true})
}

// DELETE /api/content?public_id&resource_type
func (h *Handler) DeleteContent(c *fiber.Ctx) error {
	publicID := c.Query("public_id")
	if publicID == "" {
		return utils.JSONError(c, fiber.StatusBadRequest, "Missing public_id")
	}
	if err := h.svc.Delete(c.UserContext(), publicID); err != nil {
		h.log.Errorw("delete content", "public_id", publicID, "err", err)
		return utils.JSONError(c, fiber.StatusInternalServerError, "Failed to delete content")
	}
	return c.JSON(fiber.Map{"success": true})
}

type loginRequest struct {
	ID       string `json:"id"`
	Password string `json:"password"`
}

// POST /api/login
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if !auth.Check(req.ID, req.Password) {
		return utils.JSONError(c, fiber.StatusUnauthorized, "Invalid credentials")
	}
	token, err := h.tokens.Issue(req.ID)
	if err != nil {
		h.log.Errorw("issue token", "err", err)
		return utils.JSONError(c, fiber.StatusInternalServerError, "Failed to log in")
	}
	return c.JSON(fiber.Map{"success": true, "token": token})
}
