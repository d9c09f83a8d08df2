package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/ballpit/internal/physics"
	"github.com/san-kum/ballpit/internal/sim"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
)

var ErrRunNotFound = errors.New("storage: run not found")

var frameHeader = []string{"time", "frame", "id", "x", "y", "vx", "vy", "radius", "mass"}

type Store struct {
	baseDir string
	logger  *log.Logger
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, logger: log.New(io.Discard)}
}

func (s *Store) SetLogger(l *log.Logger) { s.logger = l }

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunInfo describes how a result was produced.
type RunInfo struct {
	Scene  string
	Seed   int64
	Params sim.Params
	Run    sim.RunConfig
}

type RunMetadata struct {
	ID          string             `json:"id"`
	Scene       string             `json:"scene"`
	Timestamp   time.Time          `json:"timestamp"`
	Seed        int64              `json:"seed"`
	FrameDt     float64            `json:"frame_dt"`
	Duration    float64            `json:"duration"`
	SampleEvery int                `json:"sample_every"`
	Width       float64            `json:"width"`
	Height      float64            `json:"height"`
	Detection   string             `json:"detection"`
	Bodies      int                `json:"bodies"`
	Frames      int                `json:"frames"`
	Collisions  int                `json:"collisions"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Save writes a run directory holding metadata.json and frames.csv and
// returns the run id.
func (s *Store) Save(info RunInfo, result *sim.Result) (string, error) {
	runID, runDir, err := s.newRunDir(info.Scene)
	if err != nil {
		return "", err
	}

	bodies := 0
	if len(result.Frames) > 0 {
		bodies = len(result.Frames[0].Bodies)
	}
	meta := RunMetadata{
		ID:          runID,
		Scene:       info.Scene,
		Timestamp:   time.Now(),
		Seed:        info.Seed,
		FrameDt:     info.Run.FrameDt,
		Duration:    info.Run.Duration,
		SampleEvery: info.Run.SampleEvery,
		Width:       info.Params.Width,
		Height:      info.Params.Height,
		Detection:   string(info.Params.Detection),
		Bodies:      bodies,
		Frames:      len(result.Frames),
		Collisions:  result.Collisions,
		Metrics:     result.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	if err := ExportCSV(filepath.Join(runDir, framesFile), result); err != nil {
		return "", err
	}

	s.logger.Debug("saved run", "id", runID, "frames", len(result.Frames))
	return runID, nil
}

// newRunDir creates <base>/<scene>_<unix>, adding a suffix when two runs
// land in the same second.
func (s *Store) newRunDir(scene string) (string, string, error) {
	if err := s.Init(); err != nil {
		return "", "", err
	}
	if scene == "" {
		scene = "custom"
	}

	base := fmt.Sprintf("%s_%d", scene, time.Now().Unix())
	runID := base
	for i := 2; ; i++ {
		runDir := filepath.Join(s.baseDir, runID)
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			return runID, runDir, nil
		}
		if !os.IsExist(err) {
			return "", "", err
		}
		runID = fmt.Sprintf("%s-%d", base, i)
	}
}

// List returns the metadata of every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			s.logger.Debug("skipping run", "dir", entry.Name(), "err", err)
			continue
		}

		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadFrames reads the sampled frames of a run back.
func (s *Store) LoadFrames(runID string) ([]sim.Frame, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	return ReadCSV(file)
}

// ExportCSV writes one row per body per frame.
func ExportCSV(path string, result *sim.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := WriteCSV(file, result); err != nil {
		return err
	}
	return file.Close()
}

func WriteCSV(out io.Writer, result *sim.Result) error {
	w := csv.NewWriter(out)

	if err := w.Write(frameHeader); err != nil {
		return err
	}

	format := func(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }
	for _, f := range result.Frames {
		for _, b := range f.Bodies {
			row := []string{
				format(f.Time),
				strconv.Itoa(f.Index),
				strconv.Itoa(int(b.ID)),
				format(b.Pos[0]),
				format(b.Pos[1]),
				format(b.Vel[0]),
				format(b.Vel[1]),
				format(b.Radius),
				format(b.Mass),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}

// ReadCSV parses rows written by WriteCSV, grouping them by frame index.
func ReadCSV(in io.Reader) ([]sim.Frame, error) {
	r := csv.NewReader(in)
	r.FieldsPerRecord = len(frameHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []sim.Frame{}, nil
	}

	frames := make([]sim.Frame, 0)
	for i, record := range records[1:] {
		vals := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("storage: row %d column %s: %w", i+1, frameHeader[j], err)
			}
			vals[j] = v
		}

		index := int(vals[1])
		if len(frames) == 0 || frames[len(frames)-1].Index != index {
			frames = append(frames, sim.Frame{Index: index, Time: vals[0]})
		}
		f := &frames[len(frames)-1]
		f.Bodies = append(f.Bodies, physics.Body{
			ID:     physics.BodyID(vals[2]),
			Pos:    mgl64.Vec2{vals[3], vals[4]},
			Vel:    mgl64.Vec2{vals[5], vals[6]},
			Radius: vals[7],
			Mass:   vals[8],
		})
	}

	return frames, nil
}
