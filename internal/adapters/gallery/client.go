package gallery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/mikey/slack-image-bot/internal/core"
	"github.com/mikey/slack-image-bot/internal/utils"
	"go.uber.org/zap"
)

const (
	listPath     = "listImages.php"
	metadataPath = "imageMetadata.php"

	// maxErrorBody limits how much of a failed response is kept for reporting
	maxErrorBody = 4 << 10
)

var errMissingURL = errors.New("missing url field")

// Client is an implementation of the GalleryClient and ImageFetcher interfaces
// for the gallery HTTP API
type Client struct {
	baseURL       string
	httpClient    *http.Client
	textProcessor *utils.TextProcessor
	logger        *zap.Logger
}

// metadataResponse represents the body returned by the metadata endpoint
type metadataResponse struct {
	URL  *string `json:"url"`
	EXIF *string `json:"exif"`
	IPTC *string `json:"iptc"`
}

// NewClient creates a new gallery client. baseURL must end with a slash.
func NewClient(
	baseURL string,
	httpClient *http.Client,
	textProcessor *utils.TextProcessor,
	logger *zap.Logger,
) *Client {
	return &Client{
		baseURL:       baseURL,
		httpClient:    httpClient,
		textProcessor: textProcessor,
		logger:        logger,
	}
}

// ListImages returns the filenames stored for a period in gallery order
func (c *Client) ListImages(ctx context.Context, period core.Period) ([]string, error) {
	endpoint := c.endpoint(listPath, periodQuery(period))

	body, status, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrList, err)
	}
	if status != http.StatusOK {
		kind := core.ErrList
		if status == http.StatusNotFound {
			kind = core.ErrListNotFound
		}
		return nil, &core.StatusError{Kind: kind, StatusCode: status, URL: endpoint, Body: truncate(body)}
	}

	var files []string
	if err := json.Unmarshal(body, &files); err != nil {
		return nil, fmt.Errorf("%w: failed to decode image list: %v", core.ErrList, err)
	}

	c.logger.Debug("Retrieved image list",
		zap.String("period", period.Key()),
		zap.Int("images", len(files)))

	return files, nil
}

// GetMetadata returns the url and caption of a single image. The IPTC caption
// is preferred over the EXIF one when it is not empty.
func (c *Client) GetMetadata(ctx context.Context, period core.Period, filename string) (*core.ImageMetadata, error) {
	query := periodQuery(period)
	query.Set("filename", filename)
	endpoint := c.endpoint(metadataPath, query)

	body, status, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, &core.MetadataError{Filename: filename, Err: err}
	}
	if status != http.StatusOK {
		c.logger.Warn("Metadata request returned unexpected status",
			zap.String("filename", filename),
			zap.Int("status", status))
	}

	var resp metadataResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &core.MetadataError{Filename: filename, Body: string(body), Err: err}
	}
	if resp.URL == nil || strings.TrimSpace(*resp.URL) == "" {
		return nil, &core.MetadataError{
			Filename: filename,
			Body:     string(body),
			Err:      errMissingURL,
		}
	}

	caption := ""
	if resp.EXIF != nil {
		caption = *resp.EXIF
	}
	if resp.IPTC != nil && *resp.IPTC != "" {
		caption = *resp.IPTC
	}

	return &core.ImageMetadata{
		URL:     *resp.URL,
		Caption: c.textProcessor.ProcessText(caption),
	}, nil
}

// FetchImage downloads the image at imageURL
func (c *Client) FetchImage(ctx context.Context, imageURL string) ([]byte, error) {
	body, status, err := c.get(ctx, imageURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrImageDownload, err)
	}
	if status != http.StatusOK {
		return nil, &core.StatusError{Kind: core.ErrImageDownload, StatusCode: status, URL: imageURL}
	}

	c.logger.Debug("Downloaded image", zap.String("url", imageURL), zap.Int("size", len(body)))
	return body, nil
}

func (c *Client) endpoint(path string, query url.Values) string {
	return c.baseURL + path + "?" + query.Encode()
}

// get performs a GET request and returns the full body with the status code
func (c *Client) get(ctx context.Context, endpoint string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request to %s failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response from %s: %w", endpoint, err)
	}

	return body, resp.StatusCode, nil
}

func periodQuery(period core.Period) url.Values {
	return url.Values{
		"type":   {string(period.Type)},
		"year":   {strconv.Itoa(period.Year)},
		"number": {strconv.Itoa(period.Number)},
	}
}

func truncate(body []byte) string {
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return string(body)
}
