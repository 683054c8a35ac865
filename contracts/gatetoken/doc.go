/*
Package gatetoken implements non-divisible NEP-11 token granting access to
gated Mini App pages. Owning at least one token is enough to pass the gate.

Tokens are minted by the contract administrator only and get sequential
decimal IDs starting from "0". A token owner can transfer it like any other
NEP-11 token or burn it. The administrator is the deployer unless passed
explicitly in the deployment data as [admin, name, symbol].

# Contract notifications

Transfer notification. This is a NEP-11 standard notification. Mint has null
'from', burn has null 'to'.

	name: Transfer
	  - name: from
	    type: Hash160
	  - name: to
	    type: Hash160
	  - name: amount
	    type: Integer
	  - name: tokenId
	    type: ByteArray

OwnershipTransferred notification. Same as in Scoring contract.

	name: OwnershipTransferred
	  - name: previousOwner
	    type: Hash160
	  - name: newOwner
	    type: Hash160
*/
package gatetoken
