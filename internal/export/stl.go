// Package export writes published meshes to disk as STL files and saves
// viewer screenshots as PNG.
package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/unixpickle/model3d/model3d"
	"go.uber.org/zap"

	"github.com/Faultbox/isomesh/internal/logger"
	"github.com/Faultbox/isomesh/internal/mesher"
	"github.com/Faultbox/isomesh/pkg/math"
)

// ToModel converts a mesh to a model3d mesh. Vertex normals are dropped;
// STL facet normals follow the counter-clockwise winding.
func ToModel(m *mesher.Mesh) *model3d.Mesh {
	tris := make([]*model3d.Triangle, 0, m.TriangleCount())
	for i := 0; i+2 < len(m.Indices); i += 3 {
		tris = append(tris, &model3d.Triangle{
			coord(m.Positions[m.Indices[i]]),
			coord(m.Positions[m.Indices[i+1]]),
			coord(m.Positions[m.Indices[i+2]]),
		})
	}
	return model3d.NewMeshTriangles(tris)
}

func coord(v math.Vec3) model3d.Coord3D {
	return model3d.Coord3D{X: float64(v.X), Y: float64(v.Y), Z: float64(v.Z)}
}

// WriteSTL saves m to path.
func WriteSTL(path string, m *mesher.Mesh) error {
	if err := ToModel(m).SaveGroupedSTL(path); err != nil {
		return errors.Wrap(err, "write stl")
	}
	return nil
}

// STLSink is a mesher.Sink that saves every Nth frame into a directory as
// frame_NNNNN.stl.
type STLSink struct {
	dir     string
	every   uint64
	log     *zap.Logger
	written int
}

// NewSTLSink creates dir if needed. every <= 0 saves every frame.
func NewSTLSink(dir string, every int) (*STLSink, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(err, "create stl directory")
	}
	if every <= 0 {
		every = 1
	}
	return &STLSink{dir: dir, every: uint64(every), log: logger.Named("export")}, nil
}

// Path returns the file a frame is saved to.
func (s *STLSink) Path(frame uint64) string {
	return filepath.Join(s.dir, fmt.Sprintf("frame_%05d.stl", frame))
}

// Written returns the number of files saved so far.
func (s *STLSink) Written() int { return s.written }

// Present saves m when its frame number is a multiple of the interval.
// Empty meshes are skipped.
func (s *STLSink) Present(m *mesher.Mesh) error {
	if m.Frame%s.every != 0 || m.Empty() {
		return nil
	}
	path := s.Path(m.Frame)
	if err := WriteSTL(path, m); err != nil {
		return errors.Wrapf(err, "frame %d", m.Frame)
	}
	s.written++
	s.log.Debug("stl saved", zap.String("path", path), zap.Int("triangles", m.TriangleCount()))
	return nil
}
