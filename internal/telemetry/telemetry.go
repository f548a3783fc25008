/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package telemetry uploads crash reports to an operator-configured endpoint.
// Uploads are strictly opt-in and disabled by default; with no URL configured
// every call is a no-op.
package telemetry

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	applog "telemetrystudio/internal/log"
	"telemetrystudio/internal/version"
)

// Environment variables:
// - TS_TELEMETRY_OPT_IN: "1", "true", "yes", "on" to enable uploads
// - TS_CRASH_UPLOAD_URL: URL to POST crash reports to
// - TS_TELEMETRY_TIMEOUT_MS: request timeout in milliseconds, default 1500
type Config struct {
	OptIn    bool
	CrashURL string
	Timeout  time.Duration
}

func FromEnv() Config {
	cfg := Config{
		OptIn:    parseBool(os.Getenv("TS_TELEMETRY_OPT_IN")),
		CrashURL: strings.TrimSpace(os.Getenv("TS_CRASH_UPLOAD_URL")),
		Timeout:  1500 * time.Millisecond,
	}
	if ms := strings.TrimSpace(os.Getenv("TS_TELEMETRY_TIMEOUT_MS")); ms != "" {
		if v, err := time.ParseDuration(ms + "ms"); err == nil {
			cfg.Timeout = v
		}
	}
	return cfg
}

func parseBool(v string) bool {
	s := strings.ToLower(strings.TrimSpace(v))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}

// UploadCrash posts a crash report using the environment configuration.
// Failures are logged at debug level and otherwise swallowed; a crash
// handler must never fail because the network did.
func UploadCrash(report []byte) {
	Upload(FromEnv(), report)
}

// Upload posts a crash report with an explicit configuration.
func Upload(cfg Config, report []byte) {
	if !cfg.OptIn || cfg.CrashURL == "" {
		return
	}
	l := applog.WithComponent("telemetry")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.CrashURL, bytes.NewReader(report))
	if err != nil {
		l.Debug("crash upload request failed", slog.Any("err", err))
		return
	}
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	req.Header.Set("User-Agent", "telemetrystudio/"+version.String())

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		l.Debug("crash upload failed", slog.Any("err", err))
		return
	}
	_ = resp.Body.Close()
	if resp.StatusCode >= 300 {
		l.Debug("crash upload rejected", slog.Int("status", resp.StatusCode))
		return
	}
	l.Info("crash report uploaded", slog.String("url", cfg.CrashURL))
}
