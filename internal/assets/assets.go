// Package assets stores images on Cloudinary.
package assets

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"slices"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Cloudinary uploads remote images into folders and destroys them by URL.
type Cloudinary struct {
	cld    *cloudinary.Cloudinary
	logger *slog.Logger
}

func NewCloudinary(cloudName, apiKey, apiSecret string, logger *slog.Logger) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("configuring cloudinary: %w", err)
	}
	return &Cloudinary{cld: cld, logger: logger}, nil
}

// Upload fetches source (a URL) into folder and returns the secure URL.
func (c *Cloudinary) Upload(ctx context.Context, source, folder string) (string, error) {
	res, err := c.cld.Upload.Upload(ctx, source, uploader.UploadParams{Folder: folder})
	if err != nil {
		return "", fmt.Errorf("uploading to cloudinary: %w", err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("uploading to cloudinary: %s", res.Error.Message)
	}
	if res.SecureURL == "" {
		return "", fmt.Errorf("uploading to cloudinary: no secure url returned")
	}
	c.logger.Info("asset uploaded", "folder", folder, "public_id", res.PublicID)
	return res.SecureURL, nil
}

// Delete destroys the asset behind ref. Failures are logged only.
func (c *Cloudinary) Delete(ctx context.Context, ref string) {
	id, ok := PublicIDFromURL(ref)
	if !ok {
		c.logger.Warn("cannot derive public id", "url", ref)
		return
	}
	res, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: id})
	if err != nil {
		c.logger.Error("deleting asset", "public_id", id, "error", err)
		return
	}
	if res.Error.Message != "" {
		c.logger.Error("deleting asset", "public_id", id, "error", res.Error.Message)
		return
	}
	c.logger.Info("asset deleted", "public_id", id, "result", res.Result)
}

// PublicIDFromURL extracts the storage id from a delivery URL of the form
// .../upload/<version>/<public_id>.<ext>.
func PublicIDFromURL(url string) (string, bool) {
	parts := strings.Split(url, "/")
	i := slices.Index(parts, "upload")
	if i < 0 || i+2 >= len(parts) {
		return "", false
	}
	id := strings.Join(parts[i+2:], "/")
	id = strings.TrimSuffix(id, path.Ext(id))
	if id == "" {
		return "", false
	}
	return id, true
}

// Disabled is used when no Cloudinary credentials are configured. Uploads
// fail; deletes do nothing.
type Disabled struct{}

func (Disabled) Upload(context.Context, string, string) (string, error) {
	return "", fmt.Errorf("image storage is not configured")
}

func (Disabled) Delete(context.Context, string) {}
