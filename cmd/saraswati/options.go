package main

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/saraswati-lib/saraswati"
	"github.com/saraswati-lib/saraswati/printer"
	"github.com/saraswati-lib/saraswati/syntax"
	"github.com/saraswati-lib/saraswati/transform"
	"github.com/spf13/viper"
)

var syntaxPresets = map[string]syntax.SyntaxConfig{
	"full":              syntax.FullLanguage,
	"portable":          syntax.Portable,
	"continuation-safe": syntax.ContinuationSafe,
}

func signatureFromConfig(v *viper.Viper) (transform.Signature, error) {
	placement, err := transform.ParsePlacement(v.GetString("placement"))
	if err != nil {
		return transform.Signature{}, err
	}
	ctx, err := transform.ParseContext(v.GetString("context"))
	if err != nil {
		return transform.Signature{}, err
	}
	return transform.Signature{
		Callee:               v.GetString("callee"),
		MinArgs:              v.GetInt("min-args"),
		MaxArgs:              v.GetInt("max-args"),
		Placement:            placement,
		Context:              ctx,
		AllowNestedFunctions: v.GetBool("allow-nested-functions"),
		RespectShadowing:     v.GetBool("respect-shadowing"),
		Runtime:              v.GetString("runtime"),
	}, nil
}

func compilerOptions(v *viper.Viper, logger zerolog.Logger) ([]saraswati.Option, error) {
	mode, err := transform.ParseMode(v.GetString("mode"))
	if err != nil {
		return nil, err
	}
	sig, err := signatureFromConfig(v)
	if err != nil {
		return nil, err
	}
	preset, ok := syntaxPresets[v.GetString("syntax")]
	if !ok {
		return nil, fmt.Errorf("unknown syntax preset %q", v.GetString("syntax"))
	}
	return []saraswati.Option{
		saraswati.WithMode(mode),
		saraswati.WithSignature(sig),
		saraswati.WithStrict(v.GetBool("strict")),
		saraswati.WithLogger(logger),
		saraswati.WithPrinterConfig(printer.Config{Indent: v.GetInt("indent")}),
		saraswati.WithSyntax(preset),
	}, nil
}

// newCompiler builds a compiler and a logger from the layered configuration.
func newCompiler(v *viper.Viper) (*saraswati.Compiler, zerolog.Logger, error) {
	logger, err := newLogger(v)
	if err != nil {
		return nil, logger, err
	}
	opts, err := compilerOptions(v, logger)
	if err != nil {
		return nil, logger, err
	}
	c, err := saraswati.New(opts...)
	return c, logger, err
}
