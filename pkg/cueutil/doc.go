// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates and decodes CUE documents against an embedded
// schema.
//
// Every CUE input (the arduinogen configuration file and the board tables it
// may declare) goes through the same flow:
//
//  1. Compile the embedded schema
//  2. Compile user data and unify with the schema definition
//  3. Validate and decode to a Go struct
//
// # Usage
//
//	//go:embed config_schema.cue
//	var schemaBytes []byte
//
//	result, err := cueutil.ParseAndDecode[Config](
//	    schemaBytes,
//	    data,
//	    "#Config",
//	    cueutil.WithFilename("arduinogen.cue"),
//	)
//	if err != nil {
//	    return nil, err // *ValidationError(s) carrying the CUE path
//	}
//	return result.Value, nil
package cueutil
