package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"go-tamper-inspector/internal/analyzer"
	"go-tamper-inspector/internal/storage"
	"go-tamper-inspector/pkg/models"
	"go-tamper-inspector/pkg/validation"
)

// scanResult is the CLI output shape for both text and JSON modes
type scanResult struct {
	Frame       string               `json:"frame"`
	Previous    string               `json:"previous,omitempty"`
	Width       int                  `json:"width"`
	Height      int                  `json:"height"`
	Format      string               `json:"format,omitempty"`
	Scores      *models.TamperScores `json:"scores,omitempty"`
	Smear       *models.SmearResult  `json:"smear,omitempty"`
	SceneChange *models.SceneChange  `json:"scene_change,omitempty"`
	Issues      []string             `json:"issues,omitempty"`
}

func main() {
	framePath := flag.String("frame", "", "frame image path (PNG/JPEG/GIF/WEBP/PGM/PPM)")
	previousPath := flag.String("previous", "", "previous frame path; adds scene change scoring")
	smearOnly := flag.Bool("smear", false, "score lens smear only")
	jsonOut := flag.Bool("json", false, "print the result as JSON")

	flag.Parse()
	if *framePath == "" {
		fmt.Fprintln(os.Stderr, "usage: tamperscan -frame <path> [-previous <path>] [-smear] [-json]")
		os.Exit(2)
	}
	if *smearOnly && *previousPath != "" {
		fmt.Fprintln(os.Stderr, "-smear and -previous cannot be combined")
		os.Exit(2)
	}

	ctx := context.Background()
	fetcher := storage.NewLocalFrameFetcher()

	img, metadata, err := fetcher.FetchFrame(ctx, *framePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load frame: %v\n", err)
		os.Exit(1)
	}

	frameAnalyzer, err := analyzer.NewFrameAnalyzer(analyzer.DefaultOptions())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create analyzer: %v\n", err)
		os.Exit(1)
	}
	defer frameAnalyzer.Close()

	result := scanResult{
		Frame:  *framePath,
		Width:  metadata.Width,
		Height: metadata.Height,
		Format: metadata.Format,
	}
	validator := validation.NewTamperValidator()

	switch {
	case *smearOnly:
		smear, _, err := frameAnalyzer.AnalyzeSmear(img, analyzer.DefaultOptions())
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to score frame: %v\n", err)
			os.Exit(1)
		}
		result.Smear = &smear
		result.Issues = validator.ConvertIssuesToMessages(
			validator.Evaluate(models.TamperScores{SmearScore: smear.SmearScore}))

	default:
		scores, _, err := frameAnalyzer.AnalyzeFrame(img, analyzer.DefaultOptions())
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to score frame: %v\n", err)
			os.Exit(1)
		}
		result.Scores = &scores
		issues := validator.Evaluate(scores)

		if *previousPath != "" {
			previous, _, err := fetcher.FetchFrame(ctx, *previousPath)
			if err != nil {
				fmt.Fprintf(os.Stderr, "failed to load previous frame: %v\n", err)
				os.Exit(1)
			}
			change, err := frameAnalyzer.CompareFrames(img, previous, analyzer.DefaultOptions())
			if err != nil {
				fmt.Fprintf(os.Stderr, "failed to compare frames: %v\n", err)
				os.Exit(1)
			}
			result.Previous = *previousPath
			result.SceneChange = &change
			issues = append(issues, validator.EvaluateSceneChange(change)...)
		}
		result.Issues = validator.ConvertIssuesToMessages(issues)
	}

	if *jsonOut {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(result); err != nil {
			fmt.Fprintf(os.Stderr, "failed to encode result: %v\n", err)
			os.Exit(1)
		}
		return
	}

	printText(result)
}

func printText(result scanResult) {
	fmt.Printf("frame: %s (%dx%d %s)\n", result.Frame, result.Width, result.Height, result.Format)
	if result.Scores != nil {
		fmt.Printf("blur_score:     %6.1f\n", result.Scores.BlurScore)
		fmt.Printf("blackout_score: %6.1f\n", result.Scores.BlackoutScore)
		fmt.Printf("flash_score:    %6.1f\n", result.Scores.FlashScore)
		fmt.Printf("smear_score:    %6.1f\n", result.Scores.SmearScore)
	}
	if result.Smear != nil {
		fmt.Printf("smear_score:    %6.1f\n", result.Smear.SmearScore)
	}
	if result.SceneChange != nil {
		fmt.Printf("scene_change_score: %6.1f (mean abs diff %.1f)\n",
			result.SceneChange.SceneChangeScore, result.SceneChange.MeanAbsDiff)
	}
	for _, issue := range result.Issues {
		fmt.Printf("issue: %s\n", issue)
	}
}
