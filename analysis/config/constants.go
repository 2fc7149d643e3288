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

package config

const (
	// DefaultAddressSanityThreshold is the address under which resolved targets are flagged as implausible.
	// Control flow into the first bytes of the address space almost always comes from a decoding or resolution error.
	DefaultAddressSanityThreshold = 10
	// DefaultMaxIterations is the default round limit of the fixpoint driver; 0 means unbounded
	DefaultMaxIterations = 0
	// DefaultWorkers is the default number of labels resolved in parallel
	DefaultWorkers = 1
)
