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

package headerdownload

// RefillStage is the lattice's last hop: a Saved slice becomes Refilled
// once nothing further needs to happen to it, which is what makes it
// eligible for HeaderSlices.SlideWindowIfPossible to drop from the window
// and replace with a fresh Empty slot higher up.
type RefillStage struct {
	hs *HeaderSlices
}

func NewRefillStage(hs *HeaderSlices) *RefillStage {
	return &RefillStage{hs: hs}
}

// Tick refills every currently Saved slice.
func (s *RefillStage) Tick() error {
	for _, slice := range s.hs.AllByStatus(StatusSaved) {
		if err := s.hs.SetSliceStatus(slice, StatusRefilled); err != nil {
			return err
		}
	}
	for s.hs.SlideWindowIfPossible() {
	}
	return nil
}
