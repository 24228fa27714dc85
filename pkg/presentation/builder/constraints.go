/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package builder

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/google/uuid"

	"github.com/hyperledger/aries-presentproof-go/pkg/didcomm/protocol/presentproof"
)

const ldpVCFormat = "ldp_vc"

// selectCredentials picks one credential per input descriptor. Without a definition every credential is
// presented. If any descriptor cannot be satisfied nothing is selected.
func selectCredentials(pd *presentproof.PresentationDefinition,
	creds []map[string]interface{}) ([]map[string]interface{}, *submission) {
	sub := &submission{ID: uuid.New().String()}

	if pd == nil || len(pd.InputDescriptors) == 0 {
		for i := range creds {
			sub.DescriptorMap = append(sub.DescriptorMap, &descriptorMap{
				ID: fmt.Sprintf("credential-%d", i), Format: ldpVCFormat, Path: vcPath(i),
			})
		}

		if pd != nil {
			sub.DefinitionID = pd.ID
		}

		return creds, sub
	}

	sub.DefinitionID = pd.ID

	var selected []map[string]interface{}

	index := make(map[int]int)

	for _, descriptor := range pd.InputDescriptors {
		match := -1

		for i, c := range creds {
			if satisfies(descriptor.Constraints, c) {
				match = i

				break
			}
		}

		if match < 0 {
			logger.Debugf("input descriptor %s is not satisfied", descriptor.ID)

			return nil, nil
		}

		pos, ok := index[match]
		if !ok {
			pos = len(selected)
			index[match] = pos
			selected = append(selected, creds[match])
		}

		sub.DescriptorMap = append(sub.DescriptorMap, &descriptorMap{
			ID: descriptor.ID, Format: ldpVCFormat, Path: vcPath(pos),
		})
	}

	return selected, sub
}

func vcPath(i int) string {
	return fmt.Sprintf("$.verifiableCredential[%d]", i)
}

func satisfies(constraints *presentproof.Constraints, c map[string]interface{}) bool {
	if constraints == nil {
		return true
	}

	for _, field := range constraints.Fields {
		if !fieldMatches(field, c) {
			return false
		}
	}

	return true
}

// fieldMatches reports whether a value selected by one of the field paths passes the field filter.
func fieldMatches(field *presentproof.Field, c map[string]interface{}) bool {
	for _, path := range field.Path {
		v, err := jsonpath.Get(path, c)
		if err != nil {
			continue
		}

		for _, candidate := range candidates(path, v) {
			if filterAccepts(field.Filter, candidate) {
				return true
			}
		}
	}

	return false
}

// candidates flattens the result of a wildcard or recursive path.
func candidates(path string, v interface{}) []interface{} {
	if strings.Contains(path, "*") || strings.Contains(path, "..") || strings.Contains(path, "?(") {
		if values, ok := v.([]interface{}); ok {
			return values
		}
	}

	return []interface{}{v}
}

func filterAccepts(filter *presentproof.FieldFilter, v interface{}) bool {
	if v == nil {
		return false
	}

	if filter == nil {
		return true
	}

	if filter.Type != "" && !hasType(filter.Type, v) {
		return false
	}

	if filter.Const != nil && !reflect.DeepEqual(filter.Const, v) {
		return false
	}

	return true
}

func hasType(typ string, v interface{}) bool {
	switch val := v.(type) {
	case string:
		return typ == "string"
	case float64:
		return typ == "number" || (typ == "integer" && val == float64(int64(val)))
	case bool:
		return typ == "boolean"
	case map[string]interface{}:
		return typ == "object"
	case []interface{}:
		return typ == "array"
	default:
		return false
	}
}
