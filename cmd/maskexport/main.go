// Command maskexport builds the class tensor for an annotated image and
// writes one mask PNG per class plus a manifest and coverage report.
package main

import (
	"flag"
	"fmt"
	"os"

	"annotator/internal/export"
	"annotator/internal/prefs"
	"annotator/internal/segment"
	"annotator/internal/session"
)

func main() {
	imagePath := flag.String("image", "", "Path to annotated image (PNG, JPEG, TIFF, or BMP)")
	annPath := flag.String("annotations", "", "Path to annotation sidecar (default: <image>.annotations.json)")
	outDir := flag.String("out", "masks", "Output directory for class masks")
	priority := flag.Bool("priority", false, "Resolve multi-class pixels to a single class")
	ascending := flag.Bool("ascending", true, "Lower classes win overlaps (with -priority)")
	flag.Parse()

	if *imagePath == "" {
		fmt.Println("Usage: maskexport -image <path> [-annotations <path>] [-out <dir>] [-priority] [-ascending=false]")
		os.Exit(1)
	}

	sidecar := *annPath
	if sidecar == "" {
		sidecar = session.SidecarPath(*imagePath)
	}

	sess := session.New(prefs.Load())
	if err := sess.LoadImage(*imagePath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load image: %v\n", err)
		os.Exit(1)
	}
	if err := sess.LoadAnnotations(sidecar); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load annotations: %v\n", err)
		os.Exit(1)
	}

	size := sess.Size()
	store := sess.Store()
	classOrder := store.UniqueClassIDs()
	fmt.Printf("Loaded %d segments across %d classes (%dx%d)\n",
		store.Len(), len(classOrder), size.Width, size.Height)

	tensor := store.BuildTensor(size.Height, size.Width, segment.BuildTensorOptions{
		ClassOrder: classOrder,
		Priority:   *priority,
		Ascending:  *ascending,
	})

	manifest, err := export.WriteClassMasks(tensor, classOrder, store.Alias, *outDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
		os.Exit(1)
	}

	report := export.CoverageReport(tensor, classOrder)
	fmt.Printf("\nCoverage:\n")
	for _, c := range report.Classes {
		fmt.Printf("  class %d (%s): %d px, %.2f%%\n",
			c.ClassID, store.Alias(c.ClassID), c.Pixels, c.Fraction*100)
	}
	fmt.Printf("  mean %.2f%%, stddev %.2f%%\n",
		report.MeanFraction*100, report.StdDevFraction*100)

	fmt.Printf("\nWrote %d class masks to %s\n", len(manifest.Classes), *outDir)
}
