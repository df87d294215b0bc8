package httpapi

import (
	"errors"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/dmitrijs2005/healthkeeper/internal/common"
	"github.com/gin-gonic/gin"
)

func (s *Server) upload(c *gin.Context) {
	if c.Request.ContentLength > s.opts.MaxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File too large"})
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.opts.MaxUploadSize)

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file selected"})
		return
	}
	if header.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file selected"})
		return
	}

	file, err := header.Open()
	if err != nil {
		s.internalError(c, "open upload", err)
		return
	}
	defer file.Close()

	rec, err := s.intake.Store(c.Request.Context(), c.GetString(ctxEmail), header.Filename, file)
	if err != nil {
		s.internalError(c, "store upload", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "File uploaded successfully!", "file": rec})
}

func (s *Server) deleteFile(c *gin.Context) {
	err := s.ledger.Delete(c.Request.Context(), c.GetString(ctxEmail), c.Param("filename"))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, common.ErrorNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "Error deleting file. File may not exist."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "File deleted successfully!"})
}

func (s *Server) download(c *gin.Context) {
	rec, rc, err := s.ledger.Open(c.Request.Context(), c.GetString(ctxEmail), c.Param("filename"))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
			return
		}
		s.internalError(c, "open file", err)
		return
	}
	defer rc.Close()

	contentType := mime.TypeByExtension(filepath.Ext(rec.OriginalFilename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": rec.OriginalFilename})

	c.DataFromReader(http.StatusOK, -1, contentType, rc, map[string]string{
		"Content-Disposition": disposition,
	})
}
