package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/phambaophuc/webp-converter/internal/models"
	"github.com/phambaophuc/webp-converter/internal/services/archive"
	"github.com/phambaophuc/webp-converter/internal/services/processor"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type convertOpts struct {
	format      string
	quality     int
	outputDir   string
	zipFile     string
	workers     int
	compression int
	quiet       bool
}

func ConvertCommand() *cobra.Command {
	opts := convertOpts{}

	convertCmd := &cobra.Command{
		Use:     "convert [files...]",
		Short:   "Convert WebP files on disk",
		Example: "webpconv convert --format png --out converted photo1.webp photo2.webp\nwebpconv convert --format jpeg --quality 80 --zip photos.zip *.webp",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd.Context(), cmd.OutOrStdout(), opts, args)
		},
	}

	convertCmd.Flags().StringVar(&opts.format, "format", string(models.FormatJPEG), "Target format, jpeg or png")
	convertCmd.Flags().IntVar(&opts.quality, "quality", models.DefaultQuality, "JPEG quality, 1-100")
	convertCmd.Flags().StringVar(&opts.outputDir, "out", ".", "Directory the converted files are written to")
	convertCmd.Flags().StringVar(&opts.zipFile, "zip", "", "Write a ZIP archive instead of individual files")
	convertCmd.Flags().IntVar(&opts.workers, "workers", 1, "Files converted concurrently")
	convertCmd.Flags().IntVar(&opts.compression, "zip-level", archive.DefaultCompressionLevel, "DEFLATE level for --zip")
	convertCmd.Flags().BoolVar(&opts.quiet, "quiet", false, "Disable the progress spinner")

	return convertCmd
}

func runConvert(ctx context.Context, out io.Writer, opts convertOpts, paths []string) error {
	format, ok := models.ParseFormat(opts.format)
	if !ok {
		return fmt.Errorf("invalid format %q, expected jpeg or png", opts.format)
	}

	files, err := readInputFiles(paths)
	if err != nil {
		return err
	}

	if !opts.quiet {
		s := NewSpinner()
		s.Writer = os.Stderr
		s.Prefix = fmt.Sprintf("Converting %d file(s) ", len(files))
		s.Start()
		defer s.Stop()
	}

	logger := zap.NewNop()
	converter := processor.NewConverter(logger, processor.Options{Workers: opts.workers})
	images, err := converter.ConvertBatch(ctx, &models.ConversionRequest{
		Files:   files,
		Format:  format,
		Quality: opts.quality,
	})
	if err != nil {
		return err
	}

	builder := archive.NewBuilder(logger, opts.compression)
	if opts.zipFile != "" {
		return writeZip(out, builder, images, len(files), opts.zipFile)
	}
	return writeFiles(out, builder, images, len(files), opts.outputDir)
}

func readInputFiles(paths []string) ([]models.UploadedFile, error) {
	files := make([]models.UploadedFile, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", p, err)
		}
		files = append(files, models.UploadedFile{Filename: filepath.Base(p), Data: data})
	}
	return files, nil
}

func writeZip(out io.Writer, builder *archive.Builder, images []models.ConvertedImage, inputs int, zipPath string) error {
	if len(images) == 0 {
		return fmt.Errorf("none of the %d file(s) could be converted", inputs)
	}

	buffer, stats, err := builder.Build(images)
	if err != nil {
		return err
	}

	if err := os.WriteFile(zipPath, buffer.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", zipPath, err)
	}

	fmt.Fprintf(out, "Wrote %s (%s) with %d of %d image(s)\n",
		zipPath, humanize.Bytes(uint64(stats.Size)), stats.Entries, inputs)
	return nil
}

func writeFiles(out io.Writer, builder *archive.Builder, images []models.ConvertedImage, inputs int, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	entries, _ := builder.Entries(images)
	var total uint64
	written := make([]string, 0, len(entries))
	for _, entry := range entries {
		target := filepath.Join(dir, entry.Name)
		if err := os.WriteFile(target, entry.Data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", target, err)
		}
		total += uint64(len(entry.Data))
		written = append(written, entry.Name)
	}

	fmt.Fprintf(out, "Converted %d of %d file(s) into %s (%s): %s\n",
		len(written), inputs, dir, humanize.Bytes(total), strings.Join(written, ", "))
	return nil
}
