// Copyright 2023 Meta Platforms, Inc. and affiliates.
//
// Redistribution and use in source and binary forms, with or without modification, are permitted provided that the following conditions are met:
//
// 1. Redistributions of source code must retain the above copyright notice, this list of conditions and the following disclaimer.
//
// 2. Redistributions in binary form must reproduce the above copyright notice, this list of conditions and the following disclaimer in the documentation and/or other materials provided with the distribution.
//
// 3. Neither the name of the copyright holder nor the names of its contributors may be used to endorse or promote products derived from this software without specific prior written permission.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.

package main

import (
	"context"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/facebookincubator/go-belt/beltctx"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/go-sql-driver/mysql"
	"github.com/spf13/pflag"

	"github.com/m1stadev/beta-firmware-API/pkg/catalog"
	"github.com/m1stadev/beta-firmware-API/pkg/harvester"
	"github.com/m1stadev/beta-firmware-API/pkg/manifest"
	"github.com/m1stadev/beta-firmware-API/pkg/netlimit"
	"github.com/m1stadev/beta-firmware-API/pkg/observability"
	"github.com/m1stadev/beta-firmware-API/pkg/server"
	"github.com/m1stadev/beta-firmware-API/pkg/service"
	"github.com/m1stadev/beta-firmware-API/pkg/signing"
	"github.com/m1stadev/beta-firmware-API/pkg/storage"
)

func assertNoError(ctx context.Context, err error) {
	if err != nil {
		logger.FromCtx(ctx).Fatalf("%v", err)
	}
}

func usageExit() {
	pflag.Usage()
	os.Exit(2) // The default Go's exitcode on flag.Parse() problems
}

func main() {
	logLevel := logger.LevelInfo // the default value

	dbAddr := os.Getenv("DBHOST")
	if dbAddr == "" {
		dbAddr = "127.0.0.1:3306"
	}
	mysqlDSN := (&mysql.Config{
		User:   os.Getenv("DBUSER"),
		Passwd: os.Getenv("DBPASS"),
		Net:    "tcp",
		Addr:   dbAddr,
		DBName: "betas",
	}).FormatDSN()

	pflag.Var(&logLevel, "log-level", "logging level")
	netPprofAddr := pflag.String("net-pprof-addr", "", "if non-empty then listens with net/http/pprof")
	bindAddr := pflag.String("bind-addr", ":8080", "the address to listen on")
	rdbmsDriver := pflag.String("rdbms-driver", "sqlite", "either 'sqlite' or 'mysql'")
	rdbmsDSN := pflag.String("rdbms-dsn", "betas.db", "")
	catalogURL := pflag.String("catalog-url", catalog.DefaultURL, "the upstream device/firmware catalog")
	signingEndpoint := pflag.String("signing-endpoint", signing.DefaultEndpoint, "the vendor signing-ticket service")
	refreshInterval := pflag.Duration("refresh-interval", service.DefaultRefreshInterval, "the pause between two harvest passes")
	netLimit := pflag.Int64("net-limit", netlimit.DefaultCapacity, "maximal amount of concurrent outbound network requests")
	pflag.Parse()
	if pflag.NArg() != 0 {
		usageExit()
	}

	dsn := *rdbmsDSN
	if *rdbmsDriver == "mysql" && dsn == "betas.db" {
		dsn = mysqlDSN
	}

	ctx := observability.WithBelt(
		context.Background(),
		logLevel,
		"betasd", true,
	)

	log := logger.FromCtx(ctx)

	if *netPprofAddr != "" {
		go func() {
			err := http.ListenAndServe(*netPprofAddr, nil)
			log.Errorf("unable to start listening for net/http/pprof: %v", err)
		}()
	}

	stor, err := storage.New(*rdbmsDriver, dsn, log)
	assertNoError(ctx, err)
	defer stor.Close()
	assertNoError(ctx, stor.InitSchema(ctx))

	limiter := netlimit.New(*netLimit)
	harv := harvester.New(stor, catalog.NewClient(*catalogURL), manifest.NewResolver(), limiter)
	verifier := signing.NewVerifier(stor, signing.NewClient(*signingEndpoint), limiter)

	svc := service.New(stor, harv, verifier)
	svc.RefreshInterval = *refreshInterval
	go svc.RunRefreshLoop(ctx)

	srv := server.New(svc)
	log.Infof("listening on '%s'", *bindAddr)
	assertNoError(ctx, http.ListenAndServe(*bindAddr, srv.Handler(beltctx.Belt(ctx), logLevel)))
}
