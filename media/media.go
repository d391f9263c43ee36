// Package media signs direct uploads to Cloudinary and removes hosted
// product images.
package media

import (
	"context"
	"errors"
	"net/url"
	"regexp"
	"strconv"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/junaidrashid-git/storefront/apperr"
	"github.com/junaidrashid-git/storefront/config"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const maxConcurrentDeletes = 8

var ErrNotConfigured = apperr.Internal("Cloudinary configuration missing", nil)

var publicIDPattern = regexp.MustCompile(`/upload/(?:v\d+/)?([^.]+)\.[a-zA-Z]+$`)

// ExtractPublicID pulls the public id out of a delivery URL such as
// https://res.cloudinary.com/demo/image/upload/v123/folder/name.jpg.
func ExtractPublicID(rawURL string) (string, bool) {
	m := publicIDPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Destroyer removes one asset and reports the host's result ("ok", "not found").
type Destroyer interface {
	Destroy(ctx context.Context, publicID string) (string, error)
}

type Signature struct {
	Signature string `json:"signature"`
	Timestamp int64  `json:"timestamp"`
	CloudName string `json:"cloudName"`
	APIKey    string `json:"apiKey"`
	Folder    string `json:"folder"`
}

type DestroyResponse struct {
	Result string `json:"result"`
}

type DeleteResult struct {
	PublicID string           `json:"publicId"`
	Result   *DestroyResponse `json:"result,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// DeleteReport summarises a batch delete. Per-image failures are counted,
// never returned as errors.
type DeleteReport struct {
	Success bool           `json:"success"`
	Deleted int            `json:"deleted"`
	Failed  int            `json:"failed"`
	Results []DeleteResult `json:"results"`
}

type Service struct {
	cfg       config.Cloudinary
	destroyer Destroyer
	log       *zap.Logger
	now       func() time.Time
}

// New wires the Cloudinary SDK when credentials are configured. Without
// them the service still constructs but every call fails with ErrNotConfigured.
func New(cfg config.Cloudinary, log *zap.Logger) (*Service, error) {
	s := &Service{cfg: cfg, log: log, now: time.Now}
	if !cfg.Configured() {
		return s, nil
	}
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, err
	}
	s.destroyer = cloudinaryDestroyer{cld: cld}
	return s, nil
}

// NewWithDestroyer builds a service around an existing destroyer.
func NewWithDestroyer(cfg config.Cloudinary, d Destroyer, log *zap.Logger) *Service {
	return &Service{cfg: cfg, destroyer: d, log: log, now: time.Now}
}

// Sign returns the parameters a browser needs for a signed upload into the
// product folder.
func (s *Service) Sign() (*Signature, error) {
	if !s.cfg.Configured() {
		return nil, ErrNotConfigured
	}
	ts := s.now().Unix()
	params := url.Values{
		"folder":    {s.cfg.Folder},
		"timestamp": {strconv.FormatInt(ts, 10)},
	}
	sig, err := api.SignParameters(params, s.cfg.APISecret)
	if err != nil {
		return nil, apperr.Internal("Failed to generate signature", err)
	}
	return &Signature{
		Signature: sig,
		Timestamp: ts,
		CloudName: s.cfg.CloudName,
		APIKey:    s.cfg.APIKey,
		Folder:    s.cfg.Folder,
	}, nil
}

// Delete removes every public id concurrently.
func (s *Service) Delete(ctx context.Context, publicIDs []string) (*DeleteReport, error) {
	report := &DeleteReport{Success: true, Results: []DeleteResult{}}
	if len(publicIDs) == 0 {
		return report, nil
	}
	if s.destroyer == nil {
		return nil, ErrNotConfigured
	}

	results := make([]DeleteResult, len(publicIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentDeletes)
	for i, id := range publicIDs {
		g.Go(func() error {
			res, err := s.destroyer.Destroy(gctx, id)
			if err != nil {
				s.log.Warn("failed to delete image", zap.String("public_id", id), zap.Error(err))
				results[i] = DeleteResult{PublicID: id, Error: "Failed to delete"}
				return nil
			}
			results[i] = DeleteResult{PublicID: id, Result: &DestroyResponse{Result: res}}
			return nil
		})
	}
	_ = g.Wait()

	for _, r := range results {
		if r.Error != "" {
			report.Failed++
		} else {
			report.Deleted++
		}
	}
	report.Results = results
	return report, nil
}

// DeleteURLs removes the assets behind delivery URLs, skipping URLs that
// are not hosted on Cloudinary. Failures are logged only.
func (s *Service) DeleteURLs(ctx context.Context, urls []string) {
	var ids []string
	for _, u := range urls {
		if id, ok := ExtractPublicID(u); ok {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return
	}
	report, err := s.Delete(ctx, ids)
	if err != nil {
		s.log.Warn("image cleanup skipped", zap.Error(err))
		return
	}
	if report.Failed > 0 {
		s.log.Warn("image cleanup incomplete", zap.Int("failed", report.Failed), zap.Int("deleted", report.Deleted))
	}
}

type cloudinaryDestroyer struct {
	cld *cloudinary.Cloudinary
}

func (d cloudinaryDestroyer) Destroy(ctx context.Context, publicID string) (string, error) {
	res, err := d.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return "", err
	}
	if res.Error.Message != "" {
		return "", errors.New(res.Error.Message)
	}
	return res.Result, nil
}
