package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mitech808/phone-price-bot/internal/domain/entity"
	"github.com/mitech808/phone-price-bot/internal/usecase"
	"github.com/mitech808/phone-price-bot/pkg/logger"
)

var queryCmd = &cobra.Command{
	Use:   "query <text>",
	Short: "Bitta so'rovni hal qilib JSON chiqarish",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runQuery,
}

var compareCmd = &cobra.Command{
	Use:   "compare <first> <second>",
	Short: "Ikki qurilmani taqqoslab JSON chiqarish",
	Args:  cobra.ExactArgs(2),
	RunE:  runCompare,
}

// cliSession CLI taqqoslash uchun sessiya kaliti
const cliSession int64 = 0

// comparisonView taqqoslash natijasining JSON ko'rinishi
type comparisonView struct {
	Status     string                    `json:"status"`
	Comparison *entity.ComparisonPayload `json:"comparison,omitempty"`
	Unresolved []string                  `json:"unresolved,omitempty"`
}

func runQuery(cmd *cobra.Command, args []string) error {
	eng, err := cliEngine(cmd.Context())
	if err != nil {
		return err
	}
	res, err := eng.queries.Resolve(strings.Join(args, " "))
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), struct {
		Kind string `json:"kind"`
		entity.QueryResult
	}{Kind: res.Kind.String(), QueryResult: res})
}

func runCompare(cmd *cobra.Command, args []string) error {
	eng, err := cliEngine(cmd.Context())
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), compareOnce(eng.comparisons, args[0], args[1]))
}

// compareOnce dialogni bir martada o'tkazadi
func compareOnce(comparisons *usecase.ComparisonUseCase, first, second string) comparisonView {
	comparisons.Start(cliSession)
	comparisons.Submit(cliSession, first)
	out, _ := comparisons.Submit(cliSession, second)

	if out.Kind == usecase.OutcomeComplete {
		return comparisonView{Status: "complete", Comparison: out.Payload}
	}
	return comparisonView{Status: "ambiguous", Unresolved: out.Unresolved}
}

func cliEngine(ctx context.Context) (*engine, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("logger yaratilmadi: %w", err)
	}
	return buildEngine(ctx, cfg, log.With("cmd", "cli"))
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
