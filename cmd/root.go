package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dzgen",
	Short: "Generate and serve Deep Zoom tile pyramids",
	Long: `dzgen converts an image into a Deep Zoom tile pyramid: a .dzi
descriptor plus one directory of fixed-size square tiles per zoom level,
in the layout viewers such as OpenSeadragon expect.

Examples:
  # Render the full pyramid for slide.png into ./out
  dzgen generate slide.png -o out

  # JPEG tiles at quality 90 with a 2-pixel overlap
  dzgen generate slide.png -o out --format jpeg --quality 90 --overlap 2

  # Serve tiles over HTTP instead of writing them to disk
  dzgen serve slide.png --port 8080`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.dzgen.yaml)")

	// Pyramid parameters, shared by generate and serve.
	rootCmd.PersistentFlags().Int("tile-size", 256, "width and height of a single tile")
	rootCmd.PersistentFlags().Int("overlap", 1, "extra pixels on each interior tile edge")
	rootCmd.PersistentFlags().String("format", "jpeg", "tile format (jpeg|png)")
	rootCmd.PersistentFlags().Int("quality", 85, "JPEG quality (ignored for png)")
	rootCmd.PersistentFlags().String("background", "", "background color as RRGGBB (default white)")

	viper.BindPFlag("tile-size", rootCmd.PersistentFlags().Lookup("tile-size"))
	viper.BindPFlag("overlap", rootCmd.PersistentFlags().Lookup("overlap"))
	viper.BindPFlag("format", rootCmd.PersistentFlags().Lookup("format"))
	viper.BindPFlag("quality", rootCmd.PersistentFlags().Lookup("quality"))
	viper.BindPFlag("background", rootCmd.PersistentFlags().Lookup("background"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".dzgen" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".dzgen")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
