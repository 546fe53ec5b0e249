package main

import (
	"fmt"
	"os"

	"github.com/integratewise/webhook-gateway/config"
	"github.com/integratewise/webhook-gateway/provider"
)

/* checkconfig - Standalone CLI tool to inspect gateway configuration
 * Prints the provider table with each signature scheme and whether a
 * verification key is configured, so operators can spot fail-open
 * providers before deploying.
 * Exit codes: 0 = config loaded, 1 = config error
 */

func main() {
	cfg, err := config.GetConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ CONFIG FAILED\n\n")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✓ CONFIG LOADED\n\n")
	fmt.Printf("Port: %s\n\n", cfg.Port)
	fmt.Printf("Providers:\n")

	for i, p := range provider.All() {
		fmt.Printf("\n%d. Provider: %s\n", i+1, p)
		fmt.Printf("   Scheme:           %s\n", p.Scheme())
		if header := p.SignatureHeader(); header != "" {
			fmt.Printf("   Signature Header: %s\n", header)
		}
		if ts := p.TimestampHeader(); ts != "" {
			fmt.Printf("   Timestamp Header: %s\n", ts)
		}

		switch {
		case p.Scheme() == provider.SchemeNone:
			fmt.Printf("   Verification:     not supported by provider\n")
		case cfg.Key(p) != "":
			fmt.Printf("   Verification:     key configured\n")
		default:
			fmt.Printf("   Verification:     ⚠ FAIL-OPEN (no key configured)\n")
		}
	}

	if warnings := cfg.Warnings(); len(warnings) > 0 {
		fmt.Printf("\nWarnings:\n")
		for _, w := range warnings {
			fmt.Printf("  ⚠ %s\n", w)
		}
	}

	os.Exit(0)
}
