// Copyright © 2022 DocAnchor Project Contributors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/docanchor/docanchor/internal/anchor"
	"github.com/docanchor/docanchor/internal/apiserver"
	"github.com/docanchor/docanchor/internal/config"
	"github.com/docanchor/docanchor/internal/i18n"
	"github.com/docanchor/docanchor/internal/ledger/lfactory"
	"github.com/docanchor/docanchor/internal/log"
	"github.com/docanchor/docanchor/pkg/ledger"
)

var sigs = make(chan os.Signal, 1)

var rootCmd = &cobra.Command{
	Use:   "docanchor",
	Short: "DocAnchor signature relay server",
	Long: "The relay accepts signed anchoring authorizations over HTTP, " +
		"verifies them locally, and pays the transaction cost of submitting " +
		"them to the verify contract",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

var cfgFile string

// Test hooks, to run the command against mocks
var _utLedger ledger.Plugin
var _utServer apiserver.Server

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "file", "f", "", "config file")
}

// Execute is called by the main method of the package
func Execute() error {
	return rootCmd.Execute()
}

func initConfig() {
	config.Reset()
	apiserver.InitConfig()
}

func run() error {

	// Read the configuration first of all
	initConfig()
	err := config.ReadConfig(cfgFile)

	// Setup logging after reading config (even if failed), to output header correctly
	ctx, cancelCtx := context.WithCancel(context.Background())
	ctx = log.WithLogger(ctx, logrus.WithField("pid", os.Getpid()))
	log.SetFormatting(log.Formatting{
		DisableColor: !config.GetBool(config.LogColor),
		UTC:          config.GetBool(config.LogUTC),
	})
	log.SetLevel(config.GetString(config.LogLevel))
	log.L(ctx).Infof("DocAnchor relay")
	log.L(ctx).Infof("© Copyright 2022 DocAnchor Project Contributors")

	// Deferred error return from reading config
	if err != nil {
		cancelCtx()
		return i18n.WrapError(ctx, err, i18n.MsgConfigFailed)
	}

	// Shutdown on SIGINT/SIGTERM
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.L(ctx).Infof("Shutting down on %s", sig)
		cancelCtx()
	}()

	debugPort := config.GetUint(config.DebugPort)
	if debugPort > 0 {
		go func() {
			log.L(ctx).Debugf("Debug HTTP endpoint listening on localhost:%d: %s", debugPort, http.ListenAndServe(fmt.Sprintf("localhost:%d", debugPort), nil))
		}()
	}

	plugin := _utLedger
	if plugin == nil {
		if plugin, err = lfactory.GetLedgerPlugin(ctx, config.GetString(config.LedgerType)); err != nil {
			cancelCtx()
			return err
		}
	}
	ledgerPrefix := config.NewPluginConfig("ledger").SubPrefix(plugin.Name())
	plugin.InitPrefix(ledgerPrefix)
	if err = plugin.Init(ctx, ledgerPrefix); err != nil {
		cancelCtx()
		return err
	}

	mgr := anchor.NewManager(ctx, plugin)

	srv := _utServer
	if srv == nil {
		srv = apiserver.NewAPIServer()
	}
	return srv.Serve(ctx, mgr)
}
