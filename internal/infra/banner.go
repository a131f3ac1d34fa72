package infra

import (
	"fmt"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

// PrintBanner displays the startup banner with mode-specific warnings.
func PrintBanner(cfg *Config) {
	color := colorCyan
	modeDesc := "SIMULATION (NO NETWORK)"

	switch cfg.Trading.Mode {
	case ModeReal:
		color = colorRed
		modeDesc = "REAL MONEY TRADING"
	case ModeTestnet:
		color = colorYellow
		modeDesc = "BINANCE FUTURES TESTNET (PLAY MONEY)"
	}

	fmt.Println()
	fmt.Printf("%s==================================================%s\n", color, colorReset)
	fmt.Printf("%s  %s %s - %s%s\n", color, cfg.App.Name, cfg.App.Version, modeDesc, colorReset)
	fmt.Printf("%s==================================================%s\n", color, colorReset)
	fmt.Println()
}
