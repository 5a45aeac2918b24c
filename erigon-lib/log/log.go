// Copyright 2024 The Erigon Authors
// (modifications)
// This file is part of Erigon.
//
// Erigon is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Erigon is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Erigon. If not, see <http://www.gnu.org/licenses/>.

// Package log is a thin structured-logging façade over go.uber.org/zap,
// mirroring the teacher's own erigon-lib/log/v3 wrapper and the
// msg, "key", val, "key", val call-site convention used throughout its
// staged-sync code.
package log

import (
	"go.uber.org/zap"
)

var root = mustBuild()

func mustBuild() *zap.SugaredLogger {
	l, err := zap.NewProduction()
	if err != nil {
		l = zap.NewNop()
	}
	return l.Sugar()
}

// SetRoot swaps the backing zap logger, e.g. for a development config with
// console output during tests.
func SetRoot(l *zap.Logger) {
	root = l.Sugar()
}

func Info(msg string, ctx ...interface{})  { root.Infow(msg, ctx...) }
func Warn(msg string, ctx ...interface{})  { root.Warnw(msg, ctx...) }
func Error(msg string, ctx ...interface{}) { root.Errorw(msg, ctx...) }
func Debug(msg string, ctx ...interface{}) { root.Debugw(msg, ctx...) }
