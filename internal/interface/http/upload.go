package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/hireboard/internal/application"
)

// formResume opens the optional multipart "resume" field. It returns nil
// when the request carries no file.
func formResume(c *gin.Context) (*application.ResumeFile, func(), error) {
	fh, err := c.FormFile("resume")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, func() {}, nil
		}
		return nil, func() {}, err
	}
	f, err := fh.Open()
	if err != nil {
		return nil, func() {}, err
	}
	return &application.ResumeFile{Filename: fh.Filename, Size: fh.Size, Body: f}, func() { _ = f.Close() }, nil
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/")
}
