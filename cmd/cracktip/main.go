// Command cracktip tracks a crack tip through a time series of legacy VTK
// files carrying a phase-field point scalar, printing the located tip per
// timestep and optionally exporting the trajectory as a VTK polyline,
// per-step tip vertices, and SQLite rows.
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pfmech/cracktip/tip"
	"github.com/pfmech/cracktip/track"
	"github.com/pfmech/cracktip/vtkio"
	"gonum.org/v1/gonum/spatial/r3"
	_ "modernc.org/sqlite"
)

func main() {
	os.Exit(run())
}

func run() int {
	_ = godotenv.Load()

	arrayName := flag.String("array", envOr("CRACKTIP_ARRAY", "d"),
		"point-data array holding the phase field")
	critical := flag.Float64("critical", envFloatOr("CRACKTIP_CRITICAL", 0.5),
		"critical phase-field value; points at or below it count as cracked")
	tipFlag := flag.String("tip", envOr("CRACKTIP_TIP", "0,0,0"),
		"initial tip location as x,y,z")
	regionMin := flag.String("region-min", os.Getenv("CRACKTIP_REGION_MIN"),
		"region lower corner as x,y,z (optional)")
	regionMax := flag.String("region-max", os.Getenv("CRACKTIP_REGION_MAX"),
		"region upper corner as x,y,z (optional)")
	dt := flag.Float64("dt", 1.0, "simulation time between input files")
	out := flag.String("out", "", "trajectory polyline output path (optional)")
	tipPrefix := flag.String("tip-prefix", "",
		"write each located tip to <prefix>NNNN.vtk (optional)")
	dbPath := flag.String("db", "", "SQLite path for per-step records (optional)")
	flag.Parse()

	files := flag.Args()
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "usage: cracktip [flags] step0.vtk step1.vtk ...")
		flag.PrintDefaults()
		return 2
	}

	origin, err := parseVec(*tipFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bad -tip: %v\n", err)
		return 2
	}
	region, err := parseRegion(*regionMin, *regionMax)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 2
	}

	var store *track.Store
	if *dbPath != "" {
		db, err := sql.Open("sqlite", *dbPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open db: %v\n", err)
			return 2
		}
		defer db.Close()
		if store, err = track.NewStore(db); err != nil {
			fmt.Fprintf(os.Stderr, "init db: %v\n", err)
			return 2
		}
	}

	tracker := track.NewTracker(*arrayName, *critical)
	crack := tracker.Register("crack", origin, region)

	var trajectory []r3.Vec
	for step, path := range files {
		ps, err := vtkio.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "read %s: %v\n", path, err)
			return 1
		}

		recs, err := tracker.Advance(step, float64(step)*(*dt), ps)
		if err != nil {
			fmt.Fprintf(os.Stderr, "step %d: %v\n", step, err)
			return 1
		}
		rec := recs[0]
		if !rec.Found {
			fmt.Fprintf(os.Stderr, "step %d (%s): no tip (%s)\n",
				step, path, rec.Reason)
		} else {
			fmt.Printf("step %d: tip (%g, %g, %g) speed %g\n",
				step, rec.Tip.X, rec.Tip.Y, rec.Tip.Z, rec.Speed)
			trajectory = append(trajectory, rec.Tip)
			if *tipPrefix != "" {
				name := fmt.Sprintf("%s%04d.vtk", *tipPrefix, step)
				title := fmt.Sprintf("crack tip, step %d", step)
				if err := vtkio.WriteTipFile(name, title, rec.Tip); err != nil {
					fmt.Fprintf(os.Stderr, "write %s: %v\n", name, err)
					return 1
				}
			}
		}
		if store != nil {
			if err := store.RecordStep(rec); err != nil {
				fmt.Fprintf(os.Stderr, "record step %d: %v\n", step, err)
				return 1
			}
		}
	}

	if *out != "" {
		if len(trajectory) == 0 {
			fmt.Fprintln(os.Stderr, "no tips located; skipping trajectory output")
		} else if err := vtkio.WriteTrajectoryFile(*out, crack.ID, trajectory); err != nil {
			fmt.Fprintf(os.Stderr, "write %s: %v\n", *out, err)
			return 1
		}
	}
	return 0
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func parseVec(s string) (r3.Vec, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return r3.Vec{}, fmt.Errorf("want x,y,z, got %q", s)
	}
	var c [3]float64
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return r3.Vec{}, fmt.Errorf("component %d of %q: %w", i, s, err)
		}
		c[i] = f
	}
	return r3.Vec{X: c[0], Y: c[1], Z: c[2]}, nil
}

func parseRegion(minStr, maxStr string) (*tip.Region, error) {
	if minStr == "" && maxStr == "" {
		return nil, nil
	}
	region := tip.Unbounded()
	if minStr != "" {
		v, err := parseVec(minStr)
		if err != nil {
			return nil, fmt.Errorf("bad -region-min: %w", err)
		}
		region.Min = v
	}
	if maxStr != "" {
		v, err := parseVec(maxStr)
		if err != nil {
			return nil, fmt.Errorf("bad -region-max: %w", err)
		}
		region.Max = v
	}
	if region.Degenerate() {
		return nil, fmt.Errorf("region min exceeds max on some axis")
	}
	return &region, nil
}
