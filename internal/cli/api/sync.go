package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"ImageLibrary/internal/cli/model"
)

// SyncImage uploads one staged record: the raw file plus a JSON metadata envelope.
// The original id travels as a correlation token, so the result never depends on call order.
func (c *Client) SyncImage(ctx context.Context, rec model.ImageRecord) (UploadResult, error) {
	res := UploadResult{OriginalID: rec.GlobalID}
	if rec.File == nil || len(rec.File.Data) == 0 {
		return res, fmt.Errorf("image %d: no file payload", rec.GlobalID)
	}
	meta, err := json.Marshal(toEnvelope(rec))
	if err != nil {
		return res, err
	}
	header := http.Header{}
	header.Set(CorrelationHeader, strconv.FormatInt(rec.GlobalID, 10))

	body, err := c.postMultipart(ctx, "/api/images/sync-image", "file",
		rec.File.FileName, rec.File.MIMEType, rec.File.Data,
		map[string]string{"metadata": string(meta)}, header)
	if err != nil {
		return res, fmt.Errorf("upload image %d: %w", rec.GlobalID, err)
	}
	var ur uploadResponse
	if err := json.Unmarshal(body, &ur); err != nil {
		return res, shapeError(fmt.Sprintf("upload image %d", rec.GlobalID), err)
	}
	if ur.Metadata == nil || ur.Metadata.GlobalID == nil {
		return res, shapeError(fmt.Sprintf("upload image %d: missing metadata.GlobalId", rec.GlobalID), nil)
	}
	res.NewID = int64(*ur.Metadata.GlobalID)
	res.BlobURL = ur.Metadata.AzureBlobURL
	res.CloudTimestamp = ur.Metadata.CloudLastUpdatedUTC
	return res, nil
}

// SyncDeleted pushes deletion state of persisted records in one batch.
// Empty input makes no call and returns 0.
func (c *Client) SyncDeleted(ctx context.Context, items []DeletionState) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	payload := struct {
		Items []DeletionState `json:"items"`
	}{Items: items}
	if err := c.postJSON(ctx, "/api/images/sync-deleted", payload, nil); err != nil {
		return 0, fmt.Errorf("sync deleted: %w", err)
	}
	return len(items), nil
}

func isShape(err error) bool { return errors.Is(err, ErrShape) }
