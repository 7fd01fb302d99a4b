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
package storage

import (
	"fmt"
)

// ErrInitStorage implements "error", for the description see Error.
type ErrInitStorage struct {
	Err error
	DSN string
}

func (err ErrInitStorage) Error() string {
	return fmt.Sprintf("unable to initialize an RDBMS client (DSN: '%s'): %v", err.DSN, err.Err)
}

func (err ErrInitStorage) Unwrap() error {
	return err.Err
}

// ErrPing implements "error", for the description see Error.
type ErrPing struct {
	Err error
}

func (err ErrPing) Error() string {
	return fmt.Sprintf("unable to ping the RDBMS server: %v", err.Err)
}

func (err ErrPing) Unwrap() error {
	return err.Err
}

// ErrInitSchema implements "error", for the description see Error.
type ErrInitSchema struct {
	Err       error
	Statement string
}

func (err ErrInitSchema) Error() string {
	return fmt.Sprintf("unable to apply schema statement '%s': %v", err.Statement, err.Err)
}

func (err ErrInitSchema) Unwrap() error {
	return err.Err
}

// ErrUnableToInsert implements "error", for the description see Error.
type ErrUnableToInsert struct {
	insertedValue string
	Err           error
}

func (err ErrUnableToInsert) Error() string {
	return fmt.Sprintf("unable to insert '%s': %v", err.insertedValue, err.Err)
}

func (err ErrUnableToInsert) Unwrap() error {
	return err.Err
}

// ErrSelect implements "error", for the description see Error.
type ErrSelect struct {
	Err error
}

func (err ErrSelect) Error() string {
	return fmt.Sprintf("unable to select rows: %v", err.Err)
}

func (err ErrSelect) Unwrap() error {
	return err.Err
}

// ErrDelete implements "error", for the description see Error.
type ErrDelete struct {
	Err error
}

func (err ErrDelete) Error() string {
	return fmt.Sprintf("unable to delete rows: %v", err.Err)
}

func (err ErrDelete) Unwrap() error {
	return err.Err
}
