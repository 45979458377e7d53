package resource

import (
	"context"
	"sort"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/studyhub/core"
)

// simulated latencies
const (
	queryDelay  = 800 * time.Millisecond
	getDelay    = 500 * time.Millisecond
	createDelay = 1000 * time.Millisecond
	statsDelay  = 300 * time.Millisecond
	deleteDelay = 700 * time.Millisecond
)

var (
	errMissingFields = errors.New("missing required fields")
	errInvalidAction = errors.New("invalid action")
)

type Repository interface {
	// QueryResources returns a copy of the collection of category c, in insertion order.
	QueryResources(ctx context.Context, c Category) ([]Resource, error)
	GetResource(ctx context.Context, c Category, id string) (Resource, error)
	// CreateResource assigns a new ID to r and appends it. IDs are never reused within a category.
	CreateResource(ctx context.Context, c Category, r Resource) (Resource, error)
	// IncrementStat adds 1 to the counter of act and returns the updated resource.
	IncrementStat(ctx context.Context, c Category, id string, act Action) (Resource, error)
	DeleteResource(ctx context.Context, c Category, id string) error
}

// Service owns the resource collections.
type Service struct {
	repo       Repository
	validate   *validator.Validate
	translator ut.Translator
	latency    *core.Latency
}

func NewService(repo Repository, validate *validator.Validate, translator ut.Translator, conf *core.Config) *Service {
	return &Service{
		repo:       repo,
		validate:   validate,
		translator: translator,
		latency:    core.NewLatency(conf),
	}
}

func (svc *Service) wait(ctx context.Context, c Category, d time.Duration) error {
	if err := svc.latency.Wait(ctx, d); err != nil {
		return err
	}
	if !c.IsValid() {
		return errInvalidCategory(c)
	}
	return nil
}

// Query returns the resources of category c matching filter, in insertion order.
func (svc *Service) Query(ctx context.Context, c Category, filter QueryFilter) ([]Resource, error) {
	if err := svc.wait(ctx, c, queryDelay); err != nil {
		return nil, err
	}
	rs, err := svc.repo.QueryResources(ctx, c)
	if err != nil {
		return nil, err
	}
	filter.Clean()
	return Filter(rs, filter), nil
}

func (svc *Service) GetByID(ctx context.Context, c Category, id string) (Resource, error) {
	if err := svc.wait(ctx, c, getDelay); err != nil {
		return Resource{}, err
	}
	return svc.repo.GetResource(ctx, c, id)
}

// Create uploads a resource with zeroed stats. Only videos start without a downloads counter.
func (svc *Service) Create(ctx context.Context, c Category, nr NewResource) (Resource, error) {
	if err := svc.wait(ctx, c, createDelay); err != nil {
		return Resource{}, err
	}

	nr.Clean()
	if err := svc.validate.Struct(nr); err != nil {
		return Resource{}, core.TranslateValidation(err, svc.translator, errMissingFields.Error())
	}

	r := Resource{
		Category:     c,
		Title:        nr.Title,
		Description:  nr.Description,
		Branch:       nr.Branch,
		Year:         nr.Year,
		Semester:     nr.Semester,
		Subject:      nr.Subject,
		FileURL:      nr.FileURL,
		VideoURL:     nr.VideoURL,
		ThumbnailURL: nr.ThumbnailURL,
		Duration:     nr.Duration,
		UploadedBy:   nr.UploadedBy,
		UploadDate:   time.Now().UTC(),
		Stats:        NewStats(c),
	}
	return svc.repo.CreateResource(ctx, c, r)
}

// UpdateStats increments the counter of act by exactly one. Calling it twice counts twice.
func (svc *Service) UpdateStats(ctx context.Context, c Category, id string, act Action) (Resource, error) {
	if err := svc.wait(ctx, c, statsDelay); err != nil {
		return Resource{}, err
	}
	if !act.IsValid() {
		return Resource{}, core.NewValidationError(
			errInvalidAction,
			core.FieldError{Field: "action", Error: "action must be one of like, view, download, bookmark"},
		)
	}
	return svc.repo.IncrementStat(ctx, c, id, act)
}

func (svc *Service) Delete(ctx context.Context, c Category, id string) error {
	if err := svc.wait(ctx, c, deleteDelay); err != nil {
		return err
	}
	return svc.repo.DeleteResource(ctx, c, id)
}

// Recent returns up to `limit` resources of the given categories (all if none), newest first.
func (svc *Service) Recent(ctx context.Context, limit int, cats ...Category) ([]Resource, error) {
	if len(cats) == 0 {
		cats = Categories
	}
	if err := svc.latency.Wait(ctx, queryDelay); err != nil {
		return nil, err
	}

	var all []Resource
	for _, c := range cats {
		if !c.IsValid() {
			return nil, errInvalidCategory(c)
		}
		rs, err := svc.repo.QueryResources(ctx, c)
		if err != nil {
			return nil, err
		}
		all = append(all, rs...)
	}

	sort.SliceStable(all, func(i, j int) bool { return all[i].UploadDate.After(all[j].UploadDate) })
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	if all == nil {
		all = []Resource{}
	}
	return all, nil
}

// Overview counts the resources of every category and sums their stats.
func (svc *Service) Overview(ctx context.Context) ([]Overview, error) {
	if err := svc.latency.Wait(ctx, queryDelay); err != nil {
		return nil, err
	}

	overviews := make([]Overview, 0, len(Categories))
	for _, c := range Categories {
		rs, err := svc.repo.QueryResources(ctx, c)
		if err != nil {
			return nil, err
		}
		ov := Overview{Category: c, Count: len(rs)}
		for _, r := range rs {
			ov.Stats = ov.Stats.Add(r.Stats)
		}
		overviews = append(overviews, ov)
	}
	return overviews, nil
}
