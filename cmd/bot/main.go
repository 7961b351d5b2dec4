package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mitech808/phone-price-bot/config"
)

var (
	pricesPathFlag string
	linksPathFlag  string
	logModeFlag    string
)

var rootCmd = &cobra.Command{
	Use:   "phone-price-bot",
	Short: "Telefon katalogi bo'yicha narx va taqqoslash boti",
	Long: `phone-price-bot narx jadvali va linklar faylidan katalog yuklab,
Telegramda nom, narx va taqqoslash so'rovlariga javob beradi.

Examples:
  phone-price-bot serve
  phone-price-bot query "galaxy s23 ultra"
  phone-price-bot query 1300000
  phone-price-bot compare "iphone 15 pro" "galaxy s24"`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&pricesPathFlag, "prices", "", "narx jadvali (.xlsx yoki .csv), PRICES_PATH ni almashtiradi")
	rootCmd.PersistentFlags().StringVar(&linksPathFlag, "links", "", "linklar JSON fayli, LINKS_PATH ni almashtiradi")
	rootCmd.PersistentFlags().StringVar(&logModeFlag, "log-mode", "", "dev, debug yoki prod, LOG_MODE ni almashtiradi")

	rootCmd.AddCommand(serveCmd, queryCmd, compareCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig .env + environment, keyin flaglar
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("konfiguratsiya yuklanmadi: %w", err)
	}
	if v := strings.TrimSpace(pricesPathFlag); v != "" {
		cfg.PricesPath = v
	}
	if v := strings.TrimSpace(linksPathFlag); v != "" {
		cfg.LinksPath = v
	}
	if v := strings.TrimSpace(logModeFlag); v != "" {
		cfg.LogMode = v
	}
	initDefaultTimezone(cfg.Timezone)
	return cfg, nil
}

func initDefaultTimezone(tzName string) {
	if tzName == "" {
		tzName = "Asia/Baghdad"
	}
	if loc, err := time.LoadLocation(tzName); err == nil {
		time.Local = loc
		return
	}
	time.Local = time.FixedZone(tzName, 3*60*60)
}

func isEmptyOrDisabled(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return true
	}
	return strings.EqualFold(value, "disabled")
}
