// Package stager puts the environment's configuration.json into the build output.
package stager

import (
	"path"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/redbadger/webdeploy/filesystem"
	"github.com/redbadger/webdeploy/model"
	"github.com/redbadger/webdeploy/paths"
)

const (
	assetsConfigDir = "assets/configuration"
	keepFile        = "configuration.json"
	configPrefix    = "configuration."
)

// Result describes what Stage changed
type Result struct {
	// Target is the configuration.json that was written
	Target string
	// Removed lists the other configuration.* files that were deleted
	Removed []string
	// Warnings are the files that could not be deleted
	Warnings []filesystem.RemoveFailure
}

// Stager copies configuration.<env>.json over <dist>/assets/configuration/configuration.json
type Stager struct {
	resolver *paths.Resolver
}

// New returns a Stager working in the resolver's workspace
func New(resolver *paths.Resolver) *Stager {
	return &Stager{resolver: resolver}
}

// Stage copies the configuration for configurationName into the build output of
// appName and deletes every other configuration.* file there. The target directory
// must already exist. Failing to delete a leftover file is only a warning.
func (s *Stager) Stage(appName, configurationName string) (Result, error) {
	fs := s.resolver.Filesystem()

	dist, err := s.resolver.BuildOutputDir(appName)
	if err != nil {
		return Result{}, err
	}

	targetDir := path.Join(dist, assetsConfigDir)
	ok, err := filesystem.IsDir(fs, targetDir)
	if err != nil {
		return Result{}, errors.Wrapf(err, "checking %s", targetDir)
	}
	if !ok {
		return Result{}, errors.Wrapf(model.ErrNotFound, "dist assets folder not found: %s", s.resolver.Abs(targetDir))
	}

	source := s.resolver.ConfigSource(configurationName)
	ok, err = filesystem.IsFile(fs, source)
	if err != nil {
		return Result{}, errors.Wrapf(err, "checking %s", source)
	}
	if !ok {
		return Result{}, errors.Wrapf(model.ErrNotFound, "source config file not found: %s", s.resolver.Abs(source))
	}

	target := path.Join(targetDir, keepFile)
	if err = filesystem.CopyFile(fs, source, target); err != nil {
		return Result{}, errors.Wrapf(err, "copying %s to %s", source, target)
	}
	logger := log.WithFields(log.Fields{"source": source, "target": target})
	logger.Info("overwrote dist configuration")

	res := Result{Target: target}
	removed, failures, err := filesystem.RemoveMatching(fs, targetDir, configPrefix, keepFile)
	if err != nil {
		logger.WithError(err).Warn("failed to read assets directory")
		return res, nil
	}
	for _, name := range removed {
		logger.WithField("file", name).Info("deleted extra config file")
	}
	for _, f := range failures {
		logger.WithError(f.Err).WithField("file", f.Name).Warn("failed to delete extra config file")
	}
	res.Removed = removed
	res.Warnings = failures
	return res, nil
}
