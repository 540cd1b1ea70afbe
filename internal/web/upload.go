package web

import (
	"time"

	"horizonhomes/internal/storage"

	"github.com/gofiber/fiber/v2"
)

const maxUploadSize = 10 << 20 // 10 MiB

// Upload handles POST /api/upload. Files land in a folder picked by the
// client (profiles, portfolio, documents) and the response carries the URL
// to embed in a registration or service request.
func (h *Handler) Upload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "A file is required"})
	}
	if fileHeader.Size > maxUploadSize {
		return c.Status(413).JSON(fiber.Map{"error": "File exceeds the 10MB limit"})
	}

	folder := c.FormValue("folder")
	switch folder {
	case storage.FolderProfiles, storage.FolderPortfolio, storage.FolderDocuments:
	case "":
		folder = storage.FolderDocuments
	default:
		return c.Status(400).JSON(fiber.Map{"error": "Unknown upload folder"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("Failed to open upload", "error", err, "filename", fileHeader.Filename)
		return c.Status(500).JSON(fiber.Map{"error": "Internal server error"})
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key, err := h.storage.Store(c.Context(), folder, fileHeader.Filename, file, contentType)
	if err != nil {
		h.logger.Error("Failed to store upload", "error", err, "filename", fileHeader.Filename)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to store file"})
	}

	url, err := h.storage.URL(c.Context(), key, 7*24*time.Hour)
	if err != nil {
		h.logger.Error("Failed to build file URL", "error", err, "key", key)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to store file"})
	}

	return c.Status(201).JSON(fiber.Map{
		"key": key,
		"url": url,
	})
}

// ServeFile handles GET /files/* for the local storage backend.
func (h *Handler) ServeFile(c *fiber.Ctx) error {
	key := c.Params("*")
	if key == "" {
		return c.Status(404).JSON(fiber.Map{"error": "File not found"})
	}

	file, err := h.storage.Retrieve(c.Context(), key)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "File not found"})
	}

	return c.SendStream(file)
}
