package cmd

import "github.com/ardnew/mson/pkg"

var (
	ErrModelID     = pkg.NewError("invalid model id")
	ErrBuild       = pkg.NewError("build model")
	ErrLocal       = pkg.NewError("evaluate local")
	ErrJSONMarshal = pkg.NewError("marshal JSON")
	ErrYAMLMarshal = pkg.NewError("marshal YAML")
	ErrWriteOutput = pkg.NewError("write output")
	ErrWatch       = pkg.NewError("watch model files")
	ErrTexture     = pkg.NewError("load base texture")
	ErrWriteConfig = pkg.NewError("write configuration file")
	ErrFileExists  = pkg.NewError("file exists (use --force to overwrite)")
)
