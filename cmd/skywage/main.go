/*
main.go - Command-line roster calculator

PURPOSE:
  Runs the full roster pipeline from a CSV export and prints the
  monthly salary breakdown to stdout. No server, no database; the same
  engine the API uses, pointed at a file.

USAGE:
  skywage --roster march.csv --role ccm
  skywage --roster march.csv --role sccm --base DXB --rates rates.json

OUTPUT:
  One line per duty (date, flight, sector, hours, pay), followed by
  the calculation breakdown and the total salary.

SEE ALSO:
  - roster/session.go: The pipeline this drives
  - cmd/server/main.go: The HTTP counterpart
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skywage/roster-engine/rates"
	"github.com/skywage/roster-engine/roster"
)

const appVersion = "1.0.0"

func main() {
	var (
		rosterPath string
		role       string
		homeBase   string
		ratesPath  string
	)

	cmd := &cobra.Command{
		Use:   "skywage",
		Short: "Cabin crew roster salary calculator",
		RunE: func(cmd *cobra.Command, args []string) error {
			if rosterPath == "" {
				return fmt.Errorf("--roster is required")
			}

			table := rates.Default()
			if ratesPath != "" {
				raw, err := os.ReadFile(ratesPath)
				if err != nil {
					return fmt.Errorf("read rate table: %w", err)
				}
				table, err = rates.Parse(raw)
				if err != nil {
					return fmt.Errorf("parse rate table: %w", err)
				}
			}
			rr, err := rates.Lookup(table, role)
			if err != nil {
				return err
			}

			f, err := os.Open(rosterPath)
			if err != nil {
				return fmt.Errorf("open roster: %w", err)
			}
			defer f.Close()

			cells, err := roster.ReadTable(f)
			if err != nil {
				return fmt.Errorf("read roster: %w", err)
			}

			session := roster.NewSession(rr, roster.Options{HomeBase: homeBase})
			if err := session.LoadTable(cells); err != nil {
				return err
			}

			printBreakdown(session, role)
			return nil
		},
	}

	cmd.Version = appVersion
	cmd.SetVersionTemplate("skywage v{{.Version}}\n")

	cmd.Flags().StringVarP(&rosterPath, "roster", "r", "", "Roster CSV export path")
	cmd.Flags().StringVar(&role, "role", rates.RoleCCM, "Crew role (ccm or sccm)")
	cmd.Flags().StringVar(&homeBase, "base", roster.DefaultHomeBase, "Home base airport code")
	cmd.Flags().StringVar(&ratesPath, "rates", "", "JSON rate table override")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func printBreakdown(s *roster.Session, role string) {
	fmt.Printf("%s %d (%s)\n", s.MonthName, s.Year, role)
	for _, w := range s.Warnings {
		fmt.Printf("  warning: %s\n", w)
	}
	if s.ExcludedRows > 0 {
		fmt.Printf("  excluded %d row(s) outside %s\n", s.ExcludedRows, s.MonthName)
	}
	fmt.Println()

	for _, d := range s.Duties {
		marker := ""
		if d.LayoverOutbound {
			marker = " [layover out]"
		} else if d.LayoverInbound {
			marker = " [layover in]"
		}
		if !d.Timed {
			fmt.Printf("  %-14s %-10s %-24s (untimed)%s\n", d.Date, d.FlightNumber, d.Sector, marker)
			continue
		}
		fmt.Printf("  %-14s %-10s %-24s %6s  AED %s%s\n",
			d.Date, d.FlightNumber, d.Sector,
			roster.FormatHoursMinutes(d.Hours), d.Pay.StringFixed(2), marker)
	}

	c := s.Calc
	fmt.Println()
	fmt.Printf("  Flight hours:    %s\n", roster.FormatHoursMinutes(c.TotalFlightHours))
	fmt.Printf("  Flight pay:      AED %s\n", c.FlightPay.StringFixed(2))
	fmt.Printf("  ASBY hours:      %s\n", roster.FormatHoursMinutes(c.TotalASBYHours))
	fmt.Printf("  ASBY pay:        AED %s\n", c.ASBYPay.StringFixed(2))
	fmt.Printf("  Layover rest:    %s\n", roster.FormatHoursMinutes(c.TotalLayoverHours))
	fmt.Printf("  Per diem:        AED %s\n", c.PerDiem.StringFixed(2))
	fmt.Printf("  Fixed subtotal:  AED %s\n", c.FixedSubtotal.StringFixed(2))
	fmt.Printf("  Total salary:    AED %s\n", c.TotalSalary.StringFixed(2))

	payMonth, payYear := roster.PaymentMonth(s.Month, s.Year)
	fmt.Printf("\n  Payable %s %d\n", roster.MonthName(int(payMonth)), payYear)
}
