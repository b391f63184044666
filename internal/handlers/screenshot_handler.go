package handlers

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/Ohyesabhi28/Screenshot-Organizer/internal/middleware"
	"github.com/Ohyesabhi28/Screenshot-Organizer/internal/repositories"
	"github.com/Ohyesabhi28/Screenshot-Organizer/internal/services"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// UploadField is the multipart field carrying the image.
const UploadField = "screenshot"

var allowedImageTypes = regexp.MustCompile(`jpeg|jpg|png|gif|webp`)

// ScreenshotHandler handles HTTP requests for screenshots.
type ScreenshotHandler struct {
	service   *services.ScreenshotService
	uploadDir string
}

// NewScreenshotHandler creates a new ScreenshotHandler storing uploads in uploadDir.
func NewScreenshotHandler(service *services.ScreenshotService, uploadDir string) *ScreenshotHandler {
	return &ScreenshotHandler{
		service:   service,
		uploadDir: uploadDir,
	}
}

// RegisterRoutes registers the screenshot routes behind the auth gate.
func (h *ScreenshotHandler) RegisterRoutes(router fiber.Router, auth middleware.TokenAuthenticator) {
	screenshotRoutes := router.Group("/screenshots", middleware.AuthRequired(auth))
	screenshotRoutes.Post("/", h.HandleUpload)
	screenshotRoutes.Get("/", h.HandleList)
	screenshotRoutes.Get("/search", h.HandleSearch)
	screenshotRoutes.Get("/:id", h.HandleGet)
	screenshotRoutes.Delete("/:id", h.HandleDelete)
}

// HandleUpload stores the uploaded image and runs it through the pipeline.
func (h *ScreenshotHandler) HandleUpload(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	file, err := c.FormFile(UploadField)
	if err != nil {
		return badRequest(c, "No file uploaded")
	}
	if !isAllowedImage(file) {
		return badRequest(c, "Only image files are allowed")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	storedName := fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.NewString(), ext)
	path := filepath.Join(h.uploadDir, storedName)
	if err := c.SaveFile(file, path); err != nil {
		return respondError(c, fmt.Errorf("failed to store upload: %w", err))
	}

	result, err := h.service.Upload(c.UserContext(), user.ID, path, filepath.Base(file.Filename))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// HandleList returns a page of the caller's screenshots, newest first.
func (h *ScreenshotHandler) HandleList(c *fiber.Ctx) error {
	limit := queryInt(c, "limit", repositories.DefaultListLimit)
	offset := queryInt(c, "offset", 0)

	screenshots, err := h.service.List(middleware.CurrentUser(c).ID, limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(screenshots)
}

// HandleSearch returns the caller's screenshots matching q.
func (h *ScreenshotHandler) HandleSearch(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return badRequest(c, "Search query required")
	}

	results, err := h.service.Search(middleware.CurrentUser(c).ID, query)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(results)
}

// HandleGet returns one of the caller's screenshots.
func (h *ScreenshotHandler) HandleGet(c *fiber.Ctx) error {
	id, ok := screenshotID(c)
	if !ok {
		return respondError(c, services.ErrNotFound)
	}

	screenshot, err := h.service.Get(middleware.CurrentUser(c).ID, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(screenshot)
}

// HandleDelete removes one of the caller's screenshots and its file.
func (h *ScreenshotHandler) HandleDelete(c *fiber.Ctx) error {
	id, ok := screenshotID(c)
	if !ok {
		return respondError(c, services.ErrNotFound)
	}

	if err := h.service.Delete(middleware.CurrentUser(c).ID, id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Screenshot deleted"})
}

// isAllowedImage requires an image extension, a declared image type and
// content that sniffs as one of the accepted formats.
func isAllowedImage(file *multipart.FileHeader) bool {
	if !allowedImageTypes.MatchString(strings.ToLower(filepath.Ext(file.Filename))) {
		return false
	}
	declared := strings.ToLower(file.Header.Get(fiber.HeaderContentType))
	if !strings.HasPrefix(declared, "image/") || !allowedImageTypes.MatchString(declared) {
		return false
	}

	f, err := file.Open()
	if err != nil {
		return false
	}
	defer f.Close()

	detected, err := mimetype.DetectReader(f)
	if err != nil {
		return false
	}
	return strings.HasPrefix(detected.String(), "image/") && allowedImageTypes.MatchString(detected.String())
}

func screenshotID(c *fiber.Ctx) (int64, bool) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, false
	}
	return int64(id), true
}

// queryInt parses a non-negative integer query value, falling back to def
// when it is absent or malformed.
func queryInt(c *fiber.Ctx, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	v := c.QueryInt(key, -1)
	if v < 0 {
		return def
	}
	return v
}
