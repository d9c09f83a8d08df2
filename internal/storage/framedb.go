package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	_ "github.com/mattn/go-sqlite3"

	"github.com/san-kum/ballpit/internal/physics"
	"github.com/san-kum/ballpit/internal/sim"
)

// ErrDBExists is returned when CreateFrameDB would overwrite a file.
var ErrDBExists = errors.New("storage: frame database already exists")

const schema = `
CREATE TABLE bodies (
	frame 	INTEGER,
	time 	REAL,
	id 		INTEGER, -- body id
	x 		REAL,
	y 		REAL,
	vx 		REAL,
	vy 		REAL,
	radius 	REAL,
	mass 	REAL);
`

const indices = `
CREATE INDEX idx_frame ON bodies (frame, id);
CREATE INDEX idx_id ON bodies (id);
`

const (
	insertBody  = `INSERT INTO bodies VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);`
	queryFrame  = `SELECT frame, time, id, x, y, vx, vy, radius, mass FROM bodies WHERE frame = ? ORDER BY id ASC;`
	queryFrames = `SELECT DISTINCT frame FROM bodies ORDER BY frame ASC;`
	queryTrack  = `SELECT time, x, y FROM bodies WHERE id = ? ORDER BY frame ASC;`
)

// FrameDB records sampled frames in a sqlite file, one row per body per
// frame, for queries the CSV layout makes awkward (one body's track, a
// single frame out of a long run).
type FrameDB struct {
	db *sql.DB
}

// CreateFrameDB creates and initializes a new database in filename.
func CreateFrameDB(filename string) (*FrameDB, error) {
	if _, err := os.Stat(filename); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrDBExists, filename)
	}

	db, err := sql.Open("sqlite3", "file:"+filename+"?_journal_mode=OFF&_synchronous=OFF")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(indices); err != nil {
		db.Close()
		return nil, err
	}
	return &FrameDB{db: db}, nil
}

// OpenFrameDB opens an existing database for reading.
func OpenFrameDB(filename string) (*FrameDB, error) {
	if _, err := os.Stat(filename); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite3", "file:"+filename+"?mode=ro")
	if err != nil {
		return nil, err
	}
	return &FrameDB{db: db}, nil
}

func (f *FrameDB) Close() error { return f.db.Close() }

// WriteFrame inserts one frame inside a single transaction.
func (f *FrameDB) WriteFrame(frame sim.Frame) error {
	tx, err := f.db.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(insertBody)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, b := range frame.Bodies {
		_, err = stmt.Exec(frame.Index, frame.Time, int(b.ID),
			b.Pos[0], b.Pos[1], b.Vel[0], b.Vel[1], b.Radius, b.Mass)
		if err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

func (f *FrameDB) WriteResult(result *sim.Result) error {
	for _, frame := range result.Frames {
		if err := f.WriteFrame(frame); err != nil {
			return fmt.Errorf("storage: write frame %d: %w", frame.Index, err)
		}
	}
	return nil
}

// Hook returns a runner hook that records the world before each frame is
// advanced, every n-th frame.
func (f *FrameDB) Hook(every int) sim.Hook {
	if every < 1 {
		every = 1
	}
	return func(w *sim.World, frame int, t float64) error {
		if frame%every != 0 {
			return nil
		}
		return f.WriteFrame(sim.Frame{Index: frame, Time: t, Bodies: w.Bodies()})
	}
}

// LoadFrame returns the bodies recorded for frame index, ordered by id.
func (f *FrameDB) LoadFrame(index int) (sim.Frame, error) {
	rows, err := f.db.Query(queryFrame, index)
	if err != nil {
		return sim.Frame{}, err
	}
	defer rows.Close()

	frame := sim.Frame{Index: index}
	for rows.Next() {
		var (
			b  physics.Body
			id int
		)
		err := rows.Scan(&frame.Index, &frame.Time, &id,
			&b.Pos[0], &b.Pos[1], &b.Vel[0], &b.Vel[1], &b.Radius, &b.Mass)
		if err != nil {
			return sim.Frame{}, err
		}
		b.ID = physics.BodyID(id)
		frame.Bodies = append(frame.Bodies, b)
	}
	return frame, rows.Err()
}

// Frames lists the recorded frame indices in order.
func (f *FrameDB) Frames() ([]int, error) {
	rows, err := f.db.Query(queryFrames)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []int
	for rows.Next() {
		var i int
		if err := rows.Scan(&i); err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

// Track returns one body's recorded positions and their times.
func (f *FrameDB) Track(id physics.BodyID) ([]mgl64.Vec2, []float64, error) {
	rows, err := f.db.Query(queryTrack, int(id))
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var (
		points []mgl64.Vec2
		times  []float64
	)
	for rows.Next() {
		var t float64
		var p mgl64.Vec2
		if err := rows.Scan(&t, &p[0], &p[1]); err != nil {
			return nil, nil, err
		}
		points = append(points, p)
		times = append(times, t)
	}
	return points, times, rows.Err()
}
