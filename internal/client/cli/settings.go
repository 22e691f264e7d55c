package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
)

// Settings shows the current preferences, or updates them when called as
// "settings set".
func (a *App) Settings(ctx context.Context, args []string) {
	id := a.session.Current()
	if id == nil {
		printlnFn("Log in to manage settings.")
		return
	}

	if len(args) > 0 && args[0] == "set" {
		a.updateSettings(ctx, id.Username)
		return
	}

	prefs := a.analysis.Preferences(ctx, id.Username)
	printlnFn("Analysis mode:      ", prefs.DefaultAnalysisMode)
	printlnFn("Analysis timeout:   ", fmt.Sprintf("%ds", prefs.AnalysisTimeoutSeconds))
	printlnFn("Confidence threshold:", fmt.Sprintf("%d%%", prefs.ConfidenceThresholdPercent))
	printlnFn("Preferred languages:", strings.Join(prefs.PreferredLanguages, ", "))
}

func (a *App) updateSettings(ctx context.Context, username string) {
	prefs := a.analysis.Preferences(ctx, username)

	mode, err := getSimpleText(a.reader,
		fmt.Sprintf("Analysis mode (traditional/ai/hybrid) [%s]", prefs.DefaultAnalysisMode), os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	if mode != "" {
		prefs.DefaultAnalysisMode = mode
	}

	timeout, err := getSimpleText(a.reader,
		fmt.Sprintf("Analysis timeout in seconds [%d]", prefs.AnalysisTimeoutSeconds), os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	if timeout != "" {
		v, err := strconv.Atoi(timeout)
		if err != nil {
			log.Printf("not a number: %s", timeout)
			return
		}
		prefs.AnalysisTimeoutSeconds = v
	}

	threshold, err := getSimpleText(a.reader,
		fmt.Sprintf("Confidence threshold in percent [%d]", prefs.ConfidenceThresholdPercent), os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	if threshold != "" {
		v, err := strconv.Atoi(threshold)
		if err != nil {
			log.Printf("not a number: %s", threshold)
			return
		}
		prefs.ConfidenceThresholdPercent = v
	}

	if err := a.analysis.SavePreferences(ctx, username, prefs); err != nil {
		log.Printf("Could not save settings: %s", err.Error())
	}
}
