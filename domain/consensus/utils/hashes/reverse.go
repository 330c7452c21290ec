package hashes

import "github.com/verusnet/verushashd/domain/consensus/model/externalapi"

// Reversed returns a new hash holding the bytes of hash in reverse order.
// Digests displayed by block explorers are reversed this way.
func Reversed(hash *externalapi.DomainHash) *externalapi.DomainHash {
	reversed := hash.ByteArray()
	for i, j := 0, externalapi.DomainHashSize-1; i < j; i, j = i+1, j-1 {
		reversed[i], reversed[j] = reversed[j], reversed[i]
	}
	return externalapi.NewDomainHashFromByteArray(reversed)
}
