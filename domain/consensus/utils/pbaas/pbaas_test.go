package pbaas

import (
	"encoding/binary"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"github.com/verusnet/verushashd/domain/consensus/model/externalapi"
	"github.com/verusnet/verushashd/domain/consensus/utils/solution"
)

var (
	localChainID   = externalapi.DomainChainID{0x1a, 0xf5, 0xb8, 0x01}
	foreignChainID = externalapi.DomainChainID{0xf0, 0x0d}
	otherChainID   = externalapi.DomainChainID{0x0b, 0xad}
)

func hashOf(b byte) externalapi.DomainHash {
	var hash [externalapi.DomainHashSize]byte
	for i := range hash {
		hash[i] = b ^ byte(i)
	}
	return *externalapi.NewDomainHashFromByteArray(&hash)
}

// testHeader returns an extended header whose solution has room for
// capacity records and announces extraDataSize bytes of extra data
func testHeader(solutionVersion uint8, capacity int, extraDataSize uint16) *externalapi.DomainBlockHeader {
	sol := make([]byte, solution.DescriptorSize+capacity*solution.RecordSize+7)
	sol[0] = solution.FormatMarkerExtended
	sol[2] = solutionVersion
	binary.LittleEndian.PutUint16(sol[6:], extraDataSize)
	for i := solution.DescriptorSize; i < len(sol); i++ {
		sol[i] = 0x5c
	}

	return &externalapi.DomainBlockHeader{
		Version:              externalapi.BlockVersionPBaaS,
		HashPrevBlock:        hashOf(1),
		HashMerkleRoot:       hashOf(2),
		HashFinalSaplingRoot: hashOf(3),
		Time:                 1600000000,
		Bits:                 0x1e0fffff,
		Nonce:                hashOf(4),
		Solution:             sol,
	}
}

func testRecord(chainID externalapi.DomainChainID, b byte) *externalapi.PBaaSBlockHeader {
	return &externalapi.PBaaSBlockHeader{ChainID: chainID, HashPreHeader: hashOf(b)}
}

func TestPreHeaderHash(t *testing.T) {
	header := testHeader(solution.ActivatePBaaSHeader, 1, 0)
	preHeader := NewPreHeader(header)

	if !preHeader.Hash(&localChainID).Equal(preHeader.Hash(&localChainID)) {
		t.Fatalf("Hash is not deterministic")
	}
	if preHeader.Hash(&localChainID).Equal(preHeader.Hash(&foreignChainID)) {
		t.Fatalf("Hash does not commit to the chain ID")
	}

	// Time and the solution are not part of the pre-header
	other := header.Clone()
	other.Time++
	other.Solution[1] ^= 0xff
	if !NewPreHeader(other).Hash(&localChainID).Equal(preHeader.Hash(&localChainID)) {
		t.Fatalf("Hash commits to fields outside the pre-header")
	}

	mutations := map[string]func(header *externalapi.DomainBlockHeader){
		"HashPrevBlock":        func(header *externalapi.DomainBlockHeader) { header.HashPrevBlock = hashOf(9) },
		"HashMerkleRoot":       func(header *externalapi.DomainBlockHeader) { header.HashMerkleRoot = hashOf(9) },
		"HashFinalSaplingRoot": func(header *externalapi.DomainBlockHeader) { header.HashFinalSaplingRoot = hashOf(9) },
		"Nonce":                func(header *externalapi.DomainBlockHeader) { header.Nonce = hashOf(9) },
		"Bits":                 func(header *externalapi.DomainBlockHeader) { header.Bits++ },
	}
	for name, mutate := range mutations {
		mutated := header.Clone()
		mutate(mutated)
		if NewPreHeader(mutated).Hash(&localChainID).Equal(preHeader.Hash(&localChainID)) {
			t.Errorf("Hash does not commit to %s", name)
		}
	}
}

func TestLookupAfterAdd(t *testing.T) {
	header := testHeader(solution.ActivatePBaaSHeader, 3, 0)

	if _, _, ok := GetPBaaSHeader(header, &localChainID); ok {
		t.Fatalf("GetPBaaSHeader: found a record in an empty solution")
	}

	records := []*externalapi.PBaaSBlockHeader{
		testRecord(localChainID, 10),
		testRecord(foreignChainID, 11),
	}
	for i, record := range records {
		index, err := AddPBaaSHeader(header, record)
		if err != nil {
			t.Fatalf("AddPBaaSHeader: %+v", err)
		}
		if index != i {
			t.Fatalf("AddPBaaSHeader: got index %d, want %d", index, i)
		}
	}

	for i, record := range records {
		found, index, ok := GetPBaaSHeader(header, &record.ChainID)
		if !ok {
			t.Fatalf("GetPBaaSHeader: record %d not found", i)
		}
		if index != i || !found.Equal(record) {
			t.Fatalf("GetPBaaSHeader: got %s at index %d, want %s at index %d",
				spew.Sdump(found), index, spew.Sdump(record), i)
		}
	}
	if solution.PBaaSHeaderCount(header.Solution) != 2 {
		t.Fatalf("PBaaSHeaderCount: got %d, want 2", solution.PBaaSHeaderCount(header.Solution))
	}
}

func TestGetPBaaSHeaderFirstMatch(t *testing.T) {
	header := testHeader(solution.ActivatePBaaSHeader, 3, 0)
	first := testRecord(foreignChainID, 20)
	for _, record := range []*externalapi.PBaaSBlockHeader{first, testRecord(foreignChainID, 21)} {
		if _, err := AddPBaaSHeader(header, record); err != nil {
			t.Fatalf("AddPBaaSHeader: %+v", err)
		}
	}

	found, index, ok := GetPBaaSHeader(header, &foreignChainID)
	if !ok || index != 0 || !found.Equal(first) {
		t.Fatalf("GetPBaaSHeader: got %s at index %d", spew.Sdump(found), index)
	}
}

func TestGetPBaaSHeaderRequiresExtendedHeader(t *testing.T) {
	header := testHeader(solution.ActivatePBaaSHeader, 1, 0)
	if _, err := AddPBaaSHeader(header, testRecord(localChainID, 1)); err != nil {
		t.Fatalf("AddPBaaSHeader: %+v", err)
	}

	header.Version = externalapi.BlockVersionLegacy
	if _, _, ok := GetPBaaSHeader(header, &localChainID); ok {
		t.Fatalf("GetPBaaSHeader: found a record in a legacy header")
	}
}

func TestAddPBaaSHeaderFull(t *testing.T) {
	t.Run("extra data present", func(t *testing.T) {
		header := testHeader(solution.ActivatePBaaSHeader, 4, 1)
		before := header.Clone()
		_, err := AddPBaaSHeader(header, testRecord(localChainID, 1))
		if !errors.Is(err, ErrSolutionFull) {
			t.Fatalf("AddPBaaSHeader: got error %v, want ErrSolutionFull", err)
		}
		if !header.Equal(before) {
			t.Fatalf("AddPBaaSHeader: a failed add modified the header")
		}
	})

	t.Run("capacity exhausted", func(t *testing.T) {
		header := testHeader(solution.ActivatePBaaSHeader, 2, 0)
		for i := 0; i < 2; i++ {
			if _, err := AddPBaaSHeader(header, testRecord(externalapi.DomainChainID{byte(i + 1)}, byte(i))); err != nil {
				t.Fatalf("AddPBaaSHeader %d: %+v", i, err)
			}
		}
		_, err := AddPBaaSHeader(header, testRecord(otherChainID, 3))
		if !errors.Is(err, ErrSolutionFull) {
			t.Fatalf("AddPBaaSHeader: got error %v, want ErrSolutionFull", err)
		}
	})

	t.Run("malformed solution", func(t *testing.T) {
		header := testHeader(solution.ActivatePBaaSHeader, 1, 0)
		header.Solution = header.Solution[:solution.DescriptorSize-1]
		_, err := AddPBaaSHeader(header, testRecord(localChainID, 1))
		if !errors.Is(err, solution.ErrMalformedSolution) {
			t.Fatalf("AddPBaaSHeader: got error %v, want ErrMalformedSolution", err)
		}
	})
}

func TestAddPBaaSHeaderKeepsSolutionLength(t *testing.T) {
	header := testHeader(solution.ActivatePBaaSHeader, 2, 0)
	length := len(header.Solution)
	if _, err := AddPBaaSHeader(header, testRecord(localChainID, 1)); err != nil {
		t.Fatalf("AddPBaaSHeader: %+v", err)
	}
	if len(header.Solution) != length {
		t.Fatalf("AddPBaaSHeader: solution length changed from %d to %d", length, len(header.Solution))
	}
	if header.Solution[length-1] != 0x5c {
		t.Fatalf("AddPBaaSHeader: the bytes after the records were not kept")
	}
}

func TestUpdatePBaaSHeader(t *testing.T) {
	header := testHeader(solution.ActivatePBaaSHeader, 2, 0)
	if _, err := AddPBaaSHeader(header, testRecord(localChainID, 1)); err != nil {
		t.Fatalf("AddPBaaSHeader: %+v", err)
	}
	if _, err := AddPBaaSHeader(header, testRecord(foreignChainID, 2)); err != nil {
		t.Fatalf("AddPBaaSHeader: %+v", err)
	}

	updated := testRecord(foreignChainID, 3)
	if err := UpdatePBaaSHeader(header, updated); err != nil {
		t.Fatalf("UpdatePBaaSHeader: %+v", err)
	}
	found, index, ok := GetPBaaSHeader(header, &foreignChainID)
	if !ok || index != 1 || !found.Equal(updated) {
		t.Fatalf("GetPBaaSHeader after update: got %s at index %d", spew.Sdump(found), index)
	}
	if solution.PBaaSHeaderCount(header.Solution) != 2 {
		t.Fatalf("UpdatePBaaSHeader changed the record count")
	}

	err := UpdatePBaaSHeader(header, testRecord(otherChainID, 4))
	if !errors.Is(err, ErrPBaaSHeaderNotFound) {
		t.Fatalf("UpdatePBaaSHeader: got error %v, want ErrPBaaSHeaderNotFound", err)
	}
}

func TestPBaaSHeadersInactive(t *testing.T) {
	legacy := testHeader(solution.ActivatePBaaSHeader, 1, 0)
	legacy.Version = externalapi.BlockVersionLegacy
	early := testHeader(solution.ActivatePBaaS, 1, 0)

	for name, header := range map[string]*externalapi.DomainBlockHeader{"legacy": legacy, "early": early} {
		before := header.Clone()
		record := testRecord(localChainID, 1)
		if err := UpdatePBaaSHeader(header, record); !errors.Is(err, ErrPBaaSHeadersInactive) {
			t.Errorf("%s: UpdatePBaaSHeader: got error %v, want ErrPBaaSHeadersInactive", name, err)
		}
		if err := AddUpdatePBaaSHeader(header, record); !errors.Is(err, ErrPBaaSHeadersInactive) {
			t.Errorf("%s: AddUpdatePBaaSHeader: got error %v, want ErrPBaaSHeadersInactive", name, err)
		}
		if err := AddUpdateLocalPBaaSHeader(header, &localChainID); !errors.Is(err, ErrPBaaSHeadersInactive) {
			t.Errorf("%s: AddUpdateLocalPBaaSHeader: got error %v, want ErrPBaaSHeadersInactive", name, err)
		}
		if !header.Equal(before) {
			t.Errorf("%s: a rejected operation modified the header", name)
		}
	}
}

func TestAddUpdatePBaaSHeaderIdempotent(t *testing.T) {
	header := testHeader(solution.ActivatePBaaSHeader, 3, 0)
	record := testRecord(foreignChainID, 7)

	if err := AddUpdatePBaaSHeader(header, record); err != nil {
		t.Fatalf("AddUpdatePBaaSHeader: %+v", err)
	}
	once := header.Clone()
	if err := AddUpdatePBaaSHeader(header, record); err != nil {
		t.Fatalf("AddUpdatePBaaSHeader: %+v", err)
	}
	if !header.Equal(once) {
		t.Fatalf("AddUpdatePBaaSHeader is not idempotent:\n%s\n%s",
			spew.Sdump(once.Solution), spew.Sdump(header.Solution))
	}

	replacement := testRecord(foreignChainID, 8)
	if err := AddUpdatePBaaSHeader(header, replacement); err != nil {
		t.Fatalf("AddUpdatePBaaSHeader: %+v", err)
	}
	if solution.PBaaSHeaderCount(header.Solution) != 1 {
		t.Fatalf("AddUpdatePBaaSHeader appended instead of updating")
	}
	if found, _, _ := GetPBaaSHeader(header, &foreignChainID); !found.Equal(replacement) {
		t.Fatalf("AddUpdatePBaaSHeader: got %s, want %s", spew.Sdump(found), spew.Sdump(replacement))
	}
}

func TestCanonicalRoundTrip(t *testing.T) {
	header := testHeader(solution.ActivatePBaaSHeader, 2, 0)
	if CheckCanonical(header, &localChainID) {
		t.Fatalf("CheckCanonical: true without an embedded record")
	}

	if err := AddUpdateLocalPBaaSHeader(header, &localChainID); err != nil {
		t.Fatalf("AddUpdateLocalPBaaSHeader: %+v", err)
	}
	if !CheckCanonical(header, &localChainID) {
		t.Fatalf("CheckCanonical: false right after committing the pre-header")
	}
	if !HasCanonicalEmbeddedMatch(header, &localChainID) {
		t.Fatalf("HasCanonicalEmbeddedMatch: false right after committing the pre-header")
	}

	header.Nonce = hashOf(0x77)
	if CheckCanonical(header, &localChainID) {
		t.Fatalf("CheckCanonical: true after the nonce changed")
	}
	if HasCanonicalEmbeddedMatch(header, &localChainID) {
		t.Fatalf("HasCanonicalEmbeddedMatch: true after the nonce changed")
	}

	if err := AddUpdateLocalPBaaSHeader(header, &localChainID); err != nil {
		t.Fatalf("AddUpdateLocalPBaaSHeader: %+v", err)
	}
	if !CheckCanonical(header, &localChainID) {
		t.Fatalf("CheckCanonical: false after recommitting the pre-header")
	}
	if solution.PBaaSHeaderCount(header.Solution) != 1 {
		t.Fatalf("AddUpdateLocalPBaaSHeader appended instead of updating")
	}
}

// TestHasCanonicalEmbeddedMatchPolarity locks the meaning of the predicate: it
// is true when at least one embedded record is consistent with the header.
func TestHasCanonicalEmbeddedMatchPolarity(t *testing.T) {
	tests := []struct {
		name     string
		build    func(header *externalapi.DomainBlockHeader) error
		expected bool
	}{
		{
			name:     "no records",
			build:    func(header *externalapi.DomainBlockHeader) error { return nil },
			expected: false,
		},
		{
			name: "only inconsistent records",
			build: func(header *externalapi.DomainBlockHeader) error {
				if _, err := AddPBaaSHeader(header, testRecord(localChainID, 1)); err != nil {
					return err
				}
				_, err := AddPBaaSHeader(header, testRecord(foreignChainID, 2))
				return err
			},
			expected: false,
		},
		{
			name: "consistent local record",
			build: func(header *externalapi.DomainBlockHeader) error {
				return AddUpdateLocalPBaaSHeader(header, &localChainID)
			},
			expected: true,
		},
		{
			name: "consistent foreign record after an inconsistent local one",
			build: func(header *externalapi.DomainBlockHeader) error {
				if _, err := AddPBaaSHeader(header, testRecord(localChainID, 1)); err != nil {
					return err
				}
				if _, err := AddPBaaSHeader(header, testRecord(otherChainID, 2)); err != nil {
					return err
				}
				return AddUpdateLocalPBaaSHeader(header, &foreignChainID)
			},
			expected: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			header := testHeader(solution.ActivatePBaaSHeader, 3, 0)
			if err := test.build(header); err != nil {
				t.Fatalf("build: %+v", err)
			}
			result := HasCanonicalEmbeddedMatch(header, &localChainID)
			if result != test.expected {
				t.Fatalf("HasCanonicalEmbeddedMatch: got %t, want %t", result, test.expected)
			}
		})
	}
}

func TestClearNonCanonicalData(t *testing.T) {
	header := testHeader(solution.ActivatePBaaSHeader, 3, 0)
	if err := AddUpdateLocalPBaaSHeader(header, &localChainID); err != nil {
		t.Fatalf("AddUpdateLocalPBaaSHeader: %+v", err)
	}
	if _, err := AddPBaaSHeader(header, testRecord(foreignChainID, 5)); err != nil {
		t.Fatalf("AddPBaaSHeader: %+v", err)
	}
	before := header.Clone()

	cleared := ClearNonCanonicalData(header)
	if !header.Equal(before) {
		t.Fatalf("ClearNonCanonicalData modified its input")
	}
	if !cleared.HashMerkleRoot.IsZero() || !cleared.HashFinalSaplingRoot.IsZero() {
		t.Fatalf("ClearNonCanonicalData kept the merkle or sapling root")
	}
	if !cleared.HashPrevBlock.Equal(&header.HashPrevBlock) || !cleared.Nonce.Equal(&header.Nonce) ||
		cleared.Bits != header.Bits || cleared.Time != header.Time || cleared.Version != header.Version {
		t.Fatalf("ClearNonCanonicalData changed canonical fields: %s", spew.Sdump(cleared))
	}
	if len(cleared.Solution) != len(header.Solution) {
		t.Fatalf("ClearNonCanonicalData changed the solution length")
	}
	for i := 0; i < solution.DescriptorSize; i++ {
		if cleared.Solution[i] != header.Solution[i] {
			t.Fatalf("ClearNonCanonicalData changed descriptor byte %d", i)
		}
	}

	original, err := solution.Parse(header.Solution)
	if err != nil {
		t.Fatalf("Parse: %+v", err)
	}
	vector, err := solution.Parse(cleared.Solution)
	if err != nil {
		t.Fatalf("Parse: %+v", err)
	}
	if vector.NumRecords() != 2 {
		t.Fatalf("ClearNonCanonicalData: got %d records, want 2", vector.NumRecords())
	}
	for i, record := range vector.Records() {
		if !record.ChainID.IsZero() {
			t.Errorf("record %d: chain ID %s was not cleared", i, record.ChainID)
		}
		originalRecord, _ := original.Record(i)
		if !record.HashPreHeader.Equal(&originalRecord.HashPreHeader) {
			t.Errorf("record %d: pre-header hash changed", i)
		}
	}

	if !ClearNonCanonicalData(cleared).Equal(cleared) {
		t.Fatalf("ClearNonCanonicalData is not idempotent")
	}
}

func TestClearNonCanonicalDataWithoutRecords(t *testing.T) {
	header := testHeader(solution.ActivatePBaaS, 1, 0)
	header.Solution[4] = 1

	cleared := ClearNonCanonicalData(header)
	for i := range header.Solution {
		if cleared.Solution[i] != header.Solution[i] {
			t.Fatalf("ClearNonCanonicalData touched solution byte %d of a solution without PBaaS headers", i)
		}
	}
	if !cleared.HashMerkleRoot.IsZero() {
		t.Fatalf("ClearNonCanonicalData kept the merkle root")
	}
}
