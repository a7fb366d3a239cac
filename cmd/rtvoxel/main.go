package main

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"rtvoxel/internal/models"
	"rtvoxel/pkg/boolean"
	"rtvoxel/pkg/config"
	"rtvoxel/pkg/dispatch"
	"rtvoxel/pkg/geometry"
	"rtvoxel/pkg/margin"
	"rtvoxel/pkg/structure"
	"rtvoxel/pkg/visualization"
)

func main() {
	// Parse command line arguments
	configPath := flag.String("config", "rtvoxel.yaml", "Path to the engine configuration file")
	marginMM := flag.Float64("margin", 4.0, "Margin distance in mm for the margin demo (negative shrinks)")
	strategy := flag.String("strategy", "", "Morphology strategy: exact or separable (overrides config)")
	dumpSlices := flag.Bool("dump-slices", false, "Save result volume slices as PNG images")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *strategy != "" {
		cfg.Margin.Strategy = *strategy
	}
	strat, ok := margin.ParseStrategy(cfg.Margin.Strategy)
	if !ok {
		log.Fatalf("Unknown morphology strategy %q (want exact or separable)", cfg.Margin.Strategy)
	}

	fmt.Println("================================")
	fmt.Println("RT STRUCTURE VOLUMETRIC ENGINE")
	fmt.Println("Boolean set algebra and 3D margins over contoured structures")
	fmt.Println("================================")

	// Demo lattice: one axial slice, 1 mm isotropic.
	grid, err := geometry.NewGrid(10, 10, 1, [3]float64{0, 0, 0}, [3]float64{1, 1, 1})
	if err != nil {
		log.Fatalf("Failed to build grid: %v", err)
	}

	// Two nested square structures on the same slice.
	target := []geometry.Contour{{
		SlicePosition: 0,
		Points:        []float64{2, 2, 0, 8, 2, 0, 8, 8, 0, 2, 8, 0},
	}}
	avoid := []geometry.Contour{{
		SlicePosition: 0,
		Points:        []float64{4, 4, 0, 6, 4, 0, 6, 6, 0, 4, 6, 0},
	}}

	vipA := structure.ContoursToVIP(grid, target)
	vipB := structure.ContoursToVIP(grid, avoid)
	maskA := structure.ContoursToMask(grid, target)
	maskB := structure.ContoursToMask(grid, avoid)

	fmt.Printf("\nRasterized structures: target %d voxels, avoidance %d voxels\n",
		vipA.VoxelCount(), vipB.VoxelCount())

	// Run every op on both backends through the dispatcher, concurrently.
	fmt.Println("\nDispatching Boolean jobs...")
	d := dispatch.New()
	type pending struct {
		req dispatch.Request
		ch  <-chan dispatch.Response
		t0  time.Time
	}
	var jobs []pending
	for _, op := range []boolean.Op{boolean.OpUnion, boolean.OpIntersect, boolean.OpSubtract} {
		for _, backend := range []boolean.Backend{boolean.BackendVIP, boolean.BackendMask} {
			req := dispatch.Request{
				JobID:   fmt.Sprintf("%s-%s", op, backend),
				Op:      op,
				Backend: backend,
			}
			if backend == boolean.BackendVIP {
				req.A, req.B = vipA, vipB
			} else {
				req.A, req.B = maskA, maskB
			}
			jobs = append(jobs, pending{req: req, ch: d.Go(req), t0: time.Now()})
		}
	}

	fmt.Printf("\n%-24s %-8s %-8s %s\n", "JOB", "OK", "VOXELS", "TIME")
	var subtractMask *structure.Mask
	for _, j := range jobs {
		resp := <-j.ch
		report := models.JobReport{
			JobID:     resp.JobID,
			Operation: j.req.Op.String(),
			Backend:   j.req.Backend.String(),
			OK:        resp.OK,
			Err:       resp.Err,
			Elapsed:   time.Since(j.t0),
		}
		if resp.OK {
			switch result := resp.Result.(type) {
			case *structure.VIP:
				report.Voxels = result.VoxelCount()
			case *structure.Mask:
				report.Voxels = result.VoxelCount()
				if j.req.Op == boolean.OpSubtract {
					subtractMask = result
				}
			}
			fmt.Printf("%-24s %-8v %-8d %v\n", report.JobID, report.OK, report.Voxels, report.Elapsed)
		} else {
			fmt.Printf("%-24s %-8v %s\n", report.JobID, report.OK, report.Err)
		}
	}

	// Margin demo on the target structure.
	fmt.Printf("\nApplying %.1f mm margin (%s strategy)...\n", *marginMM, strat)
	engine := margin.NewEngine(&margin.Params{
		Spacing:           cfg.Margin.SpacingMM,
		PaddingMM:         cfg.Margin.PaddingMM,
		SliceGapFill:      cfg.Margin.SliceGapFill,
		Strategy:          strat,
		SimplifyTolerance: cfg.Margin.SimplifyTolerance,
		Workers:           cfg.Processing.Workers,
		Verbose:           cfg.Output.Verbose,
	})
	t0 := time.Now()
	grown, err := engine.Apply(target, *marginMM)
	if err != nil {
		log.Fatalf("Margin application failed: %v", err)
	}
	mr := models.MarginReport{
		MarginMM:    *marginMM,
		Strategy:    strat.String(),
		ContoursIn:  len(target),
		ContoursOut: len(grown),
		Elapsed:     time.Since(t0),
	}
	fmt.Printf("Margin complete: %d contour(s) in, %d out, %v\n",
		mr.ContoursIn, mr.ContoursOut, mr.Elapsed)
	for i, c := range grown {
		fmt.Printf("  contour %d: slice %.1f mm, %d vertices\n", i, c.SlicePosition, c.VertexCount())
	}

	if *dumpSlices && subtractMask != nil {
		dir := filepath.Join(cfg.Output.SliceDumpDir, "subtract")
		fmt.Printf("\nSaving subtract result slices to %s...\n", dir)
		viewer := visualization.NewViewer(subtractMask)
		if err := viewer.SaveSliceSequence("z", dir); err != nil {
			log.Printf("Warning: failed to save slices: %v", err)
		}
	}

	stats := structure.MaskStats(maskA)
	fmt.Printf("\nTarget structure: %d voxels, %.3f cc, centroid (%.1f, %.1f, %.1f) mm\n",
		stats.Voxels, stats.VolumeCC, stats.Centroid[0], stats.Centroid[1], stats.Centroid[2])
}
