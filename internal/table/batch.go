// Copyright (C) 2020 Markus L. Noga
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package table

// Per-star working set estimate for batching: candidate strings, catalog
// replies in flight, and the pending result row
const approxStarBytes = 64 * 1024

// Split the input into the required number of evenly sized batches, given
// the permissible amount of memory
func PrepareBatches(numStars int, memMiB int64) (numBatches, batchSize int64) {
	maxBatchSize := memMiB * 1024 * 1024 / approxStarBytes
	if maxBatchSize < 1 {
		maxBatchSize = 1
	}
	numBatches = (int64(numStars) + maxBatchSize - 1) / maxBatchSize
	if numBatches < 1 {
		numBatches = 1
	}
	batchSize = (int64(numStars) + numBatches - 1) / numBatches
	if batchSize < 1 {
		batchSize = 1
	}
	return numBatches, batchSize
}
