package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/slidekit/deepzoom/internal/deepzoom"
	"github.com/slidekit/deepzoom/internal/source"
)

var generateCmd = &cobra.Command{
	Use:   "generate <image>",
	Short: "Render the full tile pyramid to a directory",
	Long: `Render every tile of every zoom level for an image, along with the
.dzi descriptor, into the standard Deep Zoom directory layout:

  <output>/<name>.dzi
  <output>/<name>_files/<level>/<col>_<row>.<ext>`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringP("output", "o", ".", "output directory")
	generateCmd.Flags().String("name", "", "image name in the output layout (default: input basename)")

	viper.BindPFlag("output", generateCmd.Flags().Lookup("output"))
}

func runGenerate(cmd *cobra.Command, args []string) error {
	gen, format, err := openPyramid(args[0])
	if err != nil {
		return err
	}
	quality := viper.GetInt("quality")

	name, _ := cmd.Flags().GetString("name")
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
	}
	outDir := viper.GetString("output")

	doc, err := gen.Descriptor(format)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outDir, name+".dzi"), []byte(doc), 0o644); err != nil {
		return fmt.Errorf("write descriptor: %w", err)
	}

	ext := "jpeg"
	if format == "png" {
		ext = "png"
	}
	written := 0
	for level, grid := range gen.LevelTiles() {
		levelDir := filepath.Join(outDir, name+"_files", fmt.Sprint(level))
		if err := os.MkdirAll(levelDir, 0o755); err != nil {
			return fmt.Errorf("create level directory: %w", err)
		}
		for row := 0; row < grid.Y; row++ {
			for col := 0; col < grid.X; col++ {
				tile, err := gen.Tile(level, col, row)
				if err != nil {
					return fmt.Errorf("tile (%d, %d, %d): %w", level, col, row, err)
				}
				path := filepath.Join(levelDir, fmt.Sprintf("%d_%d.%s", col, row, ext))
				if err := imaging.Save(tile, path, imaging.JPEGQuality(quality)); err != nil {
					return fmt.Errorf("save tile (%d, %d, %d): %w", level, col, row, err)
				}
				written++
			}
		}
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d tiles across %d levels to %s\n",
		written, gen.LevelCount(), outDir)
	return nil
}

// openPyramid decodes the input image and wraps it in a configured
// generator; shared by generate and serve.
func openPyramid(path string) (*deepzoom.Generator, string, error) {
	format := viper.GetString("format")
	if format != "jpeg" && format != "png" {
		return nil, "", fmt.Errorf("unknown tile format %q (want jpeg or png)", format)
	}

	img, err := imaging.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", path, err)
	}

	pyramid := source.FromImage(img, source.Options{
		Background: viper.GetString("background"),
	})
	gen, err := deepzoom.New(pyramid, deepzoom.Config{
		TileSize: viper.GetInt("tile-size"),
		Overlap:  viper.GetInt("overlap"),
	})
	if err != nil {
		return nil, "", err
	}
	return gen, format, nil
}
