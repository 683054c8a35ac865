/*
Package scoring implements Scoring contract which keeps participation records
of Mini App users.

Every account has a Score: number of completed quizzes and two flags telling
whether the user subscribed to the newsletter and booked a call. Accounts that
have never been scored have a zero Score, records are never deleted.

Users attest quiz completion themselves with SubmitQuizAttestation, the
contract neither checks quiz results nor limits the number of attestations, so
every retried transaction counts. Both flags are set by the contract
administrator only (usually by a backend relaying off-chain events). The
administrator is the deployer unless passed explicitly in the deployment data,
it can be changed with TransferOwnership or dropped forever with
RenounceOwnership.

# Contract notifications

ScoreUpdated notification. This notification is produced on every successful
score change and carries the full record after the change.

	name: ScoreUpdated
	  - name: user
	    type: Hash160
	  - name: score
	    type: Array

Score array contains quiz completions (Integer), newsletter subscription flag
(Boolean) and call booking flag (Boolean).

OwnershipTransferred notification. This notification is produced on
deployment (null previous owner), administrator change and renunciation (null
new owner).

	name: OwnershipTransferred
	  - name: previousOwner
	    type: Hash160
	  - name: newOwner
	    type: Hash160
*/
package scoring

/*
Contract storage model.

Current conventions:
 <user>: 20-byte script hash of the user account

# Summary
Key-value storage format:
 - 'o' -> interop.Hash160
   contract administrator, missing after renunciation
 - 's<user>' -> std.Serialize(Score)
   participation record of the user

# Scores
Missing record is the same as a zero Score. Records are created on the first
change and are never removed.
*/
