// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package resolver

import (
	"errors"
)

var (
	// ErrInvariantViolation is returned when the resolver is called on a state or a program that does not have the
	// expected shape. The analysis cannot continue meaningfully after it.
	ErrInvariantViolation = errors.New("invariant violation")

	// ErrNotSupported is returned by resolution hooks the resolver does not implement.
	ErrNotSupported = errors.New("operation not supported")
)
