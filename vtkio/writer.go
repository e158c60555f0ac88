package vtkio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"gonum.org/v1/gonum/spatial/r3"
)

// Legacy VTK cell type ids used by the writers.
const (
	vtkVertex   = 1
	vtkPolyLine = 4
)

// WriteTip writes a single crack-tip coordinate as an unstructured grid
// holding one VTK_VERTEX cell, the shape downstream visualization expects
// for a located tip.
func WriteTip(w io.Writer, title string, tip r3.Vec) error {
	buf, endi := new(bytes.Buffer), binary.BigEndian

	binary.Write(buf, endi, []byte("# vtk DataFile Version 3.0\n"))
	binary.Write(buf, endi, []byte(title+"\n"))
	binary.Write(buf, endi, []byte("BINARY\n"))
	binary.Write(buf, endi, []byte("DATASET UNSTRUCTURED_GRID\n"))

	binary.Write(buf, endi, []byte("POINTS 1 float\n"))
	binary.Write(buf, endi, float32(tip.X))
	binary.Write(buf, endi, float32(tip.Y))
	binary.Write(buf, endi, float32(tip.Z))

	binary.Write(buf, endi, []byte("\nCELLS 1 2\n"))
	binary.Write(buf, endi, int32(1))
	binary.Write(buf, endi, int32(0))

	binary.Write(buf, endi, []byte("\nCELL_TYPES 1\n"))
	binary.Write(buf, endi, int32(vtkVertex))

	_, err := w.Write(buf.Bytes())
	return err
}

// WriteTrajectory writes one crack's tip positions over time as a single
// VTK_POLY_LINE, with a per-point timestep scalar so the pathline can be
// colored by time.
func WriteTrajectory(w io.Writer, title string, points []r3.Vec) error {
	if len(points) == 0 {
		return fmt.Errorf("trajectory has no points")
	}
	buf, endi, np := new(bytes.Buffer), binary.BigEndian, len(points)

	binary.Write(buf, endi, []byte("# vtk DataFile Version 3.0\n"))
	binary.Write(buf, endi, []byte(fmt.Sprintf("%s: %d vertices\n", title, np)))
	binary.Write(buf, endi, []byte("BINARY\n"))
	binary.Write(buf, endi, []byte("DATASET UNSTRUCTURED_GRID\n"))

	binary.Write(buf, endi, []byte(fmt.Sprintf("POINTS %d float\n", np)))
	for _, p := range points {
		binary.Write(buf, endi, float32(p.X))
		binary.Write(buf, endi, float32(p.Y))
		binary.Write(buf, endi, float32(p.Z))
	}

	binary.Write(buf, endi, []byte(fmt.Sprintf("\nCELLS 1 %d\n", np+1)))
	binary.Write(buf, endi, int32(np))
	for i := 0; i < np; i++ {
		binary.Write(buf, endi, int32(i))
	}

	binary.Write(buf, endi, []byte("\nCELL_TYPES 1\n"))
	binary.Write(buf, endi, int32(vtkPolyLine))

	binary.Write(buf, endi, []byte(fmt.Sprintf("\nPOINT_DATA %d\n", np)))
	binary.Write(buf, endi, []byte("SCALARS timestep int\n"))
	binary.Write(buf, endi, []byte("LOOKUP_TABLE default\n"))
	for i := 0; i < np; i++ {
		binary.Write(buf, endi, int32(i))
	}

	_, err := w.Write(buf.Bytes())
	return err
}

// WriteTipFile is WriteTip to a file path.
func WriteTipFile(path, title string, tip r3.Vec) error {
	return writeFile(path, func(w io.Writer) error {
		return WriteTip(w, title, tip)
	})
}

// WriteTrajectoryFile is WriteTrajectory to a file path.
func WriteTrajectoryFile(path, title string, points []r3.Vec) error {
	return writeFile(path, func(w io.Writer) error {
		return WriteTrajectory(w, title, points)
	})
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
