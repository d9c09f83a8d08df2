package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/ballpit/internal/sim"
)

type BodyData struct {
	ID     int     `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	VX     float64 `json:"vx"`
	VY     float64 `json:"vy"`
	Radius float64 `json:"radius"`
}

type FrameData struct {
	Index      int        `json:"index"`
	Time       float64    `json:"time"`
	Collisions int        `json:"collisions"`
	Bodies     []BodyData `json:"bodies"`
}

type ExportData struct {
	Scene      string             `json:"scene"`
	FrameDt    float64            `json:"frame_dt"`
	Duration   float64            `json:"duration"`
	Steps      int                `json:"steps"`
	Collisions int                `json:"collisions"`
	Frames     []FrameData        `json:"frames"`
	Metrics    map[string]float64 `json:"metrics"`
}

func newExportData(info RunInfo, result *sim.Result) ExportData {
	data := ExportData{
		Scene:      info.Scene,
		FrameDt:    info.Run.FrameDt,
		Duration:   info.Run.Duration,
		Steps:      result.StepsTaken,
		Collisions: result.Collisions,
		Frames:     make([]FrameData, len(result.Frames)),
		Metrics:    result.Metrics,
	}

	for i, f := range result.Frames {
		fd := FrameData{
			Index:      f.Index,
			Time:       f.Time,
			Collisions: f.Collisions,
			Bodies:     make([]BodyData, len(f.Bodies)),
		}
		for j, b := range f.Bodies {
			fd.Bodies[j] = BodyData{
				ID:     int(b.ID),
				X:      b.Pos[0],
				Y:      b.Pos[1],
				VX:     b.Vel[0],
				VY:     b.Vel[1],
				Radius: b.Radius,
			}
		}
		data.Frames[i] = fd
	}
	return data
}

func ExportJSON(path string, info RunInfo, result *sim.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteJSON(file, info, result)
}

// WriteJSON encodes the run to w; ExportJSON is the file variant.
func WriteJSON(w io.Writer, info RunInfo, result *sim.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newExportData(info, result))
}
