package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/verilens/verilens/internal/client/services"
)

// AnalyzeText reads a multi-line article body and submits it for detection.
func (a *App) AnalyzeText(ctx context.Context) {
	text, err := GetMultiline(a.reader, "Paste the article text", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	outcome, err := a.analysis.AnalyzeText(ctx, services.TextInput{Text: text})
	if err != nil {
		log.Printf("Analysis unsuccessful: %s", err.Error())
		return
	}
	a.printOutcome(outcome)
}

// AnalyzeURL submits an article URL for detection.
func (a *App) AnalyzeURL(ctx context.Context) {
	url, err := getSimpleText(a.reader, "Enter the article URL", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	outcome, err := a.analysis.AnalyzeText(ctx, services.TextInput{URL: url})
	if err != nil {
		log.Printf("Analysis unsuccessful: %s", err.Error())
		return
	}
	a.printOutcome(outcome)
}

// AnalyzeVideo submits a video file for deepfake analysis. When the backend
// is unreachable the service saves a demo result locally.
func (a *App) AnalyzeVideo(ctx context.Context, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("could not read %s: %v", path, err)
		return
	}

	outcome, err := a.analysis.AnalyzeVideo(ctx, services.VideoInput{
		Filename: filepath.Base(path),
		Data:     data,
	})
	if err != nil {
		log.Printf("Analysis unsuccessful: %s", err.Error())
		return
	}
	a.printOutcome(outcome)
}

func (a *App) printOutcome(o *services.Outcome) {
	printlnFn(fmt.Sprintf("Verdict: %s (confidence %.0f%%)", o.DisplayVerdict, o.Result.Confidence*100))
	if o.DisplayVerdict != o.Record.Verdict {
		printlnFn("Raw verdict:", o.Record.Verdict, "- below your confidence threshold")
	}
	if o.Result.Explanation != "" {
		printlnFn(o.Result.Explanation)
	}
	if o.Demo {
		printlnFn("Note: this is a locally generated demo result.")
	}
}

// SystemStatus probes which analysis modes the backend currently offers.
func (a *App) SystemStatus(ctx context.Context) {
	reqCtx, cancel := a.requestCtx(ctx)
	defer cancel()

	status, err := a.api.SystemStatus(reqCtx)
	if err != nil {
		log.Printf("Backend unreachable: %s", err.Error())
		return
	}
	printlnFn(fmt.Sprintf("ML: %v, AI: %v, hybrid: %v", status.MLAvailable, status.AIAvailable, status.HybridAvailable))
}
