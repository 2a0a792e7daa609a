package api

import (
	"strconv"

	"github.com/bloomday/gala/internal/cli/client"
	"github.com/bloomday/gala/internal/cli/logger"
	json "github.com/json-iterator/go"
)

// ListPhotos fetches one feed page, newest first
func ListPhotos(limit int, cursor string) (*PhotoPage, error) {
	logger.Debug("Listing photos", "limit", limit, "cursor", cursor)

	req := client.GetClient().R().
		SetQueryParam("limit", strconv.Itoa(limit))
	if cursor != "" {
		req.SetQueryParam("cursor", cursor)
	}

	resp, err := req.Get("/photos")
	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}

	var page PhotoPage
	if err := json.Unmarshal(resp.Body(), &page); err != nil {
		return nil, err
	}

	return &page, nil
}

// UploadPhoto uploads one file and returns the created item
func UploadPhoto(path string) (*PhotoItem, error) {
	logger.Debug("Uploading photo", "path", path)

	resp, err := client.GetClient().
		R().
		SetFile("photo", path).
		Post("/photos")

	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}

	var uploadResp UploadResponse
	if err := json.Unmarshal(resp.Body(), &uploadResp); err != nil {
		return nil, err
	}

	logger.Debug("Upload complete", "name", uploadResp.Item.Name)
	return &uploadResp.Item, nil
}

// DownloadPhoto fetches one photo's original bytes
func DownloadPhoto(name string) ([]byte, error) {
	logger.Debug("Downloading photo", "name", name)

	resp, err := client.GetClient().
		R().
		Get("/photos/" + name + "/download")

	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}

	return resp.Body(), nil
}

// DeletePhoto removes one photo
func DeletePhoto(name string) error {
	logger.Debug("Deleting photo", "name", name)

	resp, err := client.GetClient().
		R().
		Delete("/photos/" + name)

	return CheckResponse(resp, err)
}
