package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/bloomday/gala/internal/cache"
	apierrors "github.com/bloomday/gala/internal/errors"
	"github.com/bloomday/gala/internal/logger"
	"github.com/bloomday/gala/internal/metrics"
	"github.com/bloomday/gala/internal/middleware"
	"github.com/bloomday/gala/internal/models"
	"github.com/bloomday/gala/internal/storage"
	"github.com/bloomday/gala/internal/util"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// PhotoItem is one feed entry with its retrieval URL already resolved
type PhotoItem struct {
	Name       string    `json:"name"`
	Key        string    `json:"key"`
	URL        string    `json:"url"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// PhotoPage is one feed page, newest first
type PhotoPage struct {
	Items      []PhotoItem `json:"items"`
	NextCursor string      `json:"next_cursor,omitempty"`
	HasMore    bool        `json:"has_more"`
}

// ListPhotos serves one page of the gallery feed, newest first. The page
// is all or nothing: if any URL fails to resolve, no partial page is
// returned.
func (h *Handlers) ListPhotos(c *gin.Context) {
	limit := h.cfg.PageSize
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			util.RespondBadRequest(c, "limit must be a positive integer")
			return
		}
		limit = parsed
	}
	if limit > h.cfg.MaxPageSize {
		limit = h.cfg.MaxPageSize
	}
	cursor := c.Query("cursor")

	page, err := h.store.ListPage(c.Request.Context(), limit, cursor)
	if err != nil {
		logger.ErrorWithFields("Failed to list photos", err)
		metrics.Get().PhotoPageLoads.WithLabelValues("error").Inc()
		util.RespondWithAPIError(c, apierrors.ListingFailed(err.Error()))
		return
	}

	items, err := h.resolveItems(c, page.Objects)
	if err != nil {
		logger.ErrorWithFields("Failed to resolve photo URLs", err)
		metrics.Get().PhotoPageLoads.WithLabelValues("error").Inc()
		util.RespondWithAPIError(c, apierrors.URLResolutionFailed(err.Error()))
		return
	}

	metrics.Get().PhotoPageLoads.WithLabelValues("success").Inc()
	c.JSON(http.StatusOK, PhotoPage{
		Items:      items,
		NextCursor: page.NextCursor,
		HasMore:    page.HasMore,
	})
}

// resolveItems presigns retrieval URLs for one listed page. Presigns run
// concurrently and zip back by index so completion order never reorders
// the page.
func (h *Handlers) resolveItems(c *gin.Context, objects []storage.Object) ([]PhotoItem, error) {
	items := make([]PhotoItem, len(objects))
	g, gctx := errgroup.WithContext(c.Request.Context())
	for i, obj := range objects {
		g.Go(func() error {
			url, err := h.resolveURL(gctx, obj.Key)
			if err != nil {
				return err
			}
			items[i] = PhotoItem{
				Name:       obj.Name,
				Key:        obj.Key,
				URL:        url,
				Size:       obj.Size,
				UploadedAt: obj.LastModified,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}

// resolveURL presigns one retrieval URL, going through the Redis cache
// when available. The cache TTL stays below the URL's own expiry so a
// cached link is never dead on arrival.
func (h *Handlers) resolveURL(ctx context.Context, key string) (string, error) {
	redisClient := cache.GetRedisClient()
	if url := redisClient.GetPresignedURL(ctx, key); url != "" {
		middleware.RecordCacheHit("presign")
		return url, nil
	}
	middleware.RecordCacheMiss("presign")

	url, err := h.store.PresignGet(ctx, key)
	if err != nil {
		metrics.Get().PhotoPresignsTotal.WithLabelValues("error").Inc()
		return "", err
	}
	metrics.Get().PhotoPresignsTotal.WithLabelValues("success").Inc()

	ttl := h.cfg.URLExpiry - 5*time.Minute
	if ttl <= 0 {
		ttl = h.cfg.URLExpiry / 2
	}
	redisClient.SetPresignedURL(ctx, key, url, ttl)
	return url, nil
}

// UploadPhoto validates and stores one guest photo. Validation runs
// entirely before the first byte is written; a rejected file never
// reaches the bucket. The response carries the resolved item so clients
// can place it at the head of their feed without re-fetching.
func (h *Handlers) UploadPhoto(c *gin.Context) {
	guest := CurrentGuest(c)
	if guest == nil {
		util.RespondUnauthorized(c)
		return
	}

	file, err := c.FormFile("photo")
	if err != nil {
		util.RespondBadRequest(c, "multipart field 'photo' is required")
		return
	}

	if err := util.ValidateFilename(file.Filename); err != nil {
		metrics.Get().PhotoUploadsTotal.WithLabelValues("rejected").Inc()
		util.RespondWithAPIError(c, apierrors.UploadValidationFailed(err.Error()))
		return
	}

	contentType := file.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = storage.ContentTypeForFilename(file.Filename)
	}

	policy := h.cfg.Upload
	if policy.Enabled {
		if file.Size > policy.MaxSizeBytes {
			metrics.Get().PhotoUploadsTotal.WithLabelValues("rejected").Inc()
			util.RespondWithAPIError(c, apierrors.UploadValidationFailed(
				"file exceeds the maximum allowed size"))
			return
		}
		if !util.IsValidMediaFile(file.Filename) || !policy.Allows(contentType) {
			metrics.Get().PhotoUploadsTotal.WithLabelValues("rejected").Inc()
			util.RespondWithAPIError(c, apierrors.UploadValidationFailed(
				"only photo and video files can be shared"))
			return
		}
	}

	src, err := file.Open()
	if err != nil {
		util.RespondBadRequest(c, "could not read uploaded file")
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		util.RespondBadRequest(c, "could not read uploaded file")
		return
	}

	obj, err := h.store.Upload(c.Request.Context(), data, file.Filename, contentType)
	if err != nil {
		logger.ErrorWithFields("Failed to store photo", err,
			logger.WithGuestID(guest.ID),
		)
		metrics.Get().PhotoUploadsTotal.WithLabelValues("error").Inc()
		util.RespondWithAPIError(c, apierrors.UploadWriteFailed(err.Error()))
		return
	}

	// Ownership record; the bucket stays the source of truth for the feed
	record := models.PhotoUpload{GuestID: guest.ID, Name: obj.Name, Size: obj.Size}
	if err := h.db.Create(&record).Error; err != nil {
		logger.ErrorWithFields("Failed to record photo ownership", err,
			logger.WithPhotoKey(obj.Key),
		)
	}
	h.db.Model(guest).UpdateColumn("upload_count", gorm.Expr("upload_count + 1"))

	url, err := h.resolveURL(c.Request.Context(), obj.Key)
	if err != nil {
		logger.ErrorWithFields("Failed to resolve URL for fresh upload", err,
			logger.WithPhotoKey(obj.Key),
		)
		metrics.Get().PhotoUploadsTotal.WithLabelValues("error").Inc()
		util.RespondWithAPIError(c, apierrors.URLResolutionFailed(err.Error()))
		return
	}

	metrics.Get().PhotoUploadsTotal.WithLabelValues("success").Inc()
	metrics.Get().PhotoUploadBytes.WithLabelValues(mediaType(contentType)).Observe(float64(obj.Size))
	logger.Log.Info("photo uploaded",
		logger.WithGuestID(guest.ID),
		logger.WithPhotoKey(obj.Key),
		zap.Int64("size", obj.Size),
	)

	c.JSON(http.StatusCreated, gin.H{
		"item": PhotoItem{
			Name:       obj.Name,
			Key:        obj.Key,
			URL:        url,
			Size:       obj.Size,
			UploadedAt: obj.LastModified,
		},
	})
}

// DownloadPhoto streams one photo's bytes through the server. Guests use
// presigned URLs for viewing; this endpoint exists for saving originals.
func (h *Handlers) DownloadPhoto(c *gin.Context) {
	name := c.Param("name")
	if err := util.ValidateFilename(name); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	data, err := h.store.Download(c.Request.Context(), name)
	if err != nil {
		logger.ErrorWithFields("Failed to download photo", err,
			zap.String("name", name),
		)
		util.RespondWithAPIError(c, apierrors.DownloadFailed(err.Error()))
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+name+"\"")
	c.Data(http.StatusOK, storage.ContentTypeForFilename(name), data)
}

// DeletePhoto removes a photo. Guests may delete their own uploads; the
// host may delete anything.
func (h *Handlers) DeletePhoto(c *gin.Context) {
	guest := CurrentGuest(c)
	if guest == nil {
		util.RespondUnauthorized(c)
		return
	}

	name := c.Param("name")
	if err := util.ValidateFilename(name); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	var record models.PhotoUpload
	err := h.db.Where("name = ?", name).First(&record).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.ErrorWithFields("Failed to look up photo ownership", err,
			zap.String("name", name),
		)
		util.RespondInternalError(c, "could not look up photo ownership")
		return
	}
	owned := err == nil && record.GuestID == guest.ID
	if !owned && !guest.IsHost {
		util.RespondForbidden(c, "only the uploader or the host can delete a photo")
		return
	}

	if err := h.store.Delete(c.Request.Context(), name); err != nil {
		logger.ErrorWithFields("Failed to delete photo", err,
			zap.String("name", name),
		)
		metrics.Get().PhotoDeletesTotal.WithLabelValues("error").Inc()
		util.RespondInternalError(c, "could not delete photo")
		return
	}
	if record.ID != "" {
		h.db.Delete(&record)
	}

	metrics.Get().PhotoDeletesTotal.WithLabelValues("success").Inc()
	logger.Log.Info("photo deleted",
		logger.WithGuestID(guest.ID),
		zap.String("name", name),
		zap.Bool("by_host", !owned),
	)
	c.Status(http.StatusNoContent)
}

// mediaType returns the top-level media type of a content type
func mediaType(contentType string) string {
	for i := 0; i < len(contentType); i++ {
		if contentType[i] == '/' {
			return contentType[:i]
		}
	}
	return contentType
}
