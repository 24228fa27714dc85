/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package logutil

import (
	"strings"

	"github.com/hyperledger/aries-framework-go/spi/log"
)

// LogError logs a failed action of a protocol service or controller command.
func LogError(logger log.Logger, component, action, errMsg string, fields ...string) {
	logger.Errorf("%s errMsg=[%s]", prefix(component, action, fields), errMsg)
}

// LogWarn logs an action that completed in a degraded way.
func LogWarn(logger log.Logger, component, action, msg string, fields ...string) {
	logger.Warnf("%s msg=[%s]", prefix(component, action, fields), msg)
}

// LogDebug logs a routine step of an action.
func LogDebug(logger log.Logger, component, action, msg string, fields ...string) {
	logger.Debugf("%s msg=[%s]", prefix(component, action, fields), msg)
}

// LogInfo logs a notable step of an action.
func LogInfo(logger log.Logger, component, action, msg string, fields ...string) {
	logger.Infof("%s msg=[%s]", prefix(component, action, fields), msg)
}

// CreateKeyValueString formats a single key=[value] field.
func CreateKeyValueString(key, val string) string {
	return key + "=[" + val + "]"
}

func prefix(component, action string, fields []string) string {
	var b strings.Builder

	b.WriteString(CreateKeyValueString("command", component))
	b.WriteString(" ")
	b.WriteString(CreateKeyValueString("action", action))

	for _, f := range fields {
		b.WriteString(" ")
		b.WriteString(f)
	}

	return b.String()
}
