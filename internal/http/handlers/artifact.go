package handlers

import (
	"io"
	"mime/multipart"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/schoolbridge-backend/internal/services"
)

// maxArtifactBytes caps uploads at 32 MiB.
const maxArtifactBytes = 32 << 20

// readOptionalArtifact pulls the named multipart file if present. A missing
// file is not an error; a present but unreadable one is.
func readOptionalArtifact(c *gin.Context, field string) (*services.ArtifactInput, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return nil, nil
	}
	return readArtifact(fileHeader)
}

func readArtifact(fileHeader *multipart.FileHeader) (*services.ArtifactInput, error) {
	f, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxArtifactBytes))
	if err != nil {
		return nil, err
	}
	return &services.ArtifactInput{
		FileName: fileHeader.Filename,
		MimeType: fileHeader.Header.Get("Content-Type"),
		Data:     data,
	}, nil
}
