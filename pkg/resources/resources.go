package resources

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"f1duel/log"
	"f1duel/pkg/helper"
	"f1duel/pkg/layout"
	"f1duel/pkg/model"
)

// LocationSource returns the car positions of a lap.
type LocationSource interface {
	LapLocations(ctx context.Context, s *model.Session, l model.Lap) ([]model.Location, error)
}

type builder func(points []layout.Point, filePath string) error

type Resource struct {
	id     string
	dir    string
	prefix string
	suffix string
	_type  string
}

// Builder draws track maps into dir, once per session lap.
type Builder struct {
	dir    string
	src    LocationSource
	logger *log.Logger
}

func NewBuilder(dir string, src LocationSource) (*Builder, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "creating resources dir %s", dir)
	}
	return &Builder{dir: dir, src: src, logger: log.Default().Named("resources")}, nil
}

func (b *Builder) Dir() string {
	return b.dir
}

func trackID(s *model.Session, l model.Lap) string {
	return helper.ToID(fmt.Sprintf("%d-%s-%d", s.Key, l.Driver, l.LapNumber))
}

// TrackSVG draws the circuit from the positions of a lap. The SVG carries the
// projection metadata.
func (b *Builder) TrackSVG(ctx context.Context, s *model.Session, l model.Lap) (Resource, error) {
	r := Resource{dir: b.dir, prefix: "track_", suffix: ".svg", _type: "svg-track"}
	return b.build(ctx, &r, trackID(s, l), s, l, svgBuilder)
}

// TrackPNG draws the circuit from the positions of a lap as a PNG image.
func (b *Builder) TrackPNG(ctx context.Context, s *model.Session, l model.Lap) (Resource, error) {
	r := Resource{dir: b.dir, prefix: "track_", suffix: ".png", _type: "track"}
	return b.build(ctx, &r, trackID(s, l), s, l, pngBuilder)
}

func (r Resource) buildFilePath(id string) string {
	return filepath.Join(r.dir, r.prefix+id+r.suffix)
}

func (r Resource) IsZero() bool {
	return r.id == ""
}

func (r Resource) String() string {
	return fmt.Sprintf("ID: %s, Type: %s", r.id, r._type)
}

func (r Resource) FilePath() string {
	return r.buildFilePath(r.id)
}

func (r Resource) FileName() string {
	return fmt.Sprintf("%s%s%s", r.prefix, r.id, r.suffix)
}

func (b *Builder) build(ctx context.Context, r *Resource, id string, s *model.Session, l model.Lap, build builder) (Resource, error) {
	if id == "" {
		return *r, errors.New("id cannot be empty")
	}
	filePath := r.buildFilePath(id)
	if _, err := os.Stat(filePath); err == nil {
		b.logger.Debug("resource already exists", log.String("id", id), log.String("type", r._type))
	} else if os.IsNotExist(err) {
		locations, err := b.src.LapLocations(ctx, s, l)
		if err != nil {
			return *r, err
		}
		points := lo.Map(locations, func(loc model.Location, _ int) layout.Point {
			return layout.Point{X: loc.X, Y: loc.Y}
		})
		if err := build(points, filePath); err != nil {
			b.logger.Error("error building resource", log.String("id", id), log.ErrorField(err))
			return *r, err
		}
	} else {
		return *r, err
	}

	r.id = id
	return *r, nil
}

func svgBuilder(points []layout.Point, filePath string) error {
	_, err := layout.BuildLayoutSVG(filePath, points)
	return err
}

func pngBuilder(points []layout.Point, filePath string) error {
	_, err := layout.BuildLayoutPNG(filePath, points)
	return err
}
