//go:build !ios && !android && (amd64 || arm64)

package main

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/obinnaokechukwu/sfgo"
	"github.com/obinnaokechukwu/sfgo/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
	"github.com/spf13/cobra"
)

func metricsCommand() *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Print sfgo's resource metrics, or serve them for Prometheus",
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = sfgo.Init()

			reg := prometheus.NewRegistry()
			if _, err := metrics.Register(reg); err != nil {
				return err
			}
			if listen != "" {
				mux := http.NewServeMux()
				mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
				fmt.Fprintf(cmd.OutOrStdout(), "serving metrics on http://%s/metrics\n", listen)
				return http.ListenAndServe(listen, mux)
			}

			families, err := reg.Gather()
			if err != nil {
				return err
			}
			printFamilies(cmd.OutOrStdout(), families)
			return nil
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "serve /metrics on this address instead of printing")
	return cmd
}

func printFamilies(w io.Writer, families []*dto.MetricFamily) {
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var labels []string
			for _, lp := range m.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue()))
			}
			name := mf.GetName()
			if len(labels) > 0 {
				name += "{" + strings.Join(labels, ",") + "}"
			}

			var v float64
			switch mf.GetType() {
			case dto.MetricType_COUNTER:
				v = m.GetCounter().GetValue()
			case dto.MetricType_GAUGE:
				v = m.GetGauge().GetValue()
			default:
				v = m.GetUntyped().GetValue()
			}
			fmt.Fprintf(w, "%-60s %g\n", name, v)
		}
	}
}
