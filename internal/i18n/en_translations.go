// Copyright © 2022 DocAnchor Project Contributors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package i18n

var (
	MsgConfigFailed         = ffe("DA10101", "Failed to read config")
	MsgJSONDecodeFailed     = ffe("DA10102", "Failed to decode input JSON", 400)
	MsgAPIServerStartFailed = ffe("DA10103", "Unable to start listener on %s")
	MsgTLSConfigFailed      = ffe("DA10104", "Failed to initialize TLS configuration")
	MsgInvalidCAFile        = ffe("DA10105", "Invalid CA certificates file")
	MsgResponseMarshalError = ffe("DA10106", "Failed to serialize response data", 500)
	Msg404NotFound          = ffe("DA10107", "Not found", 404)
	MsgInvalidContentType   = ffe("DA10108", "Invalid content type", 415)
	MsgRequestTimeout       = ffe("DA10109", "The request with id '%s' timed out after %.2fms", 408)
	MsgContextCanceled      = ffe("DA10110", "Context canceled")
	MsgMissingRequiredField = ffe("DA10111", "Field '%s' is required", 400)
	MsgInvalidHexBytes32    = ffe("DA10112", "Field '%s' must be a 32-byte hex string", 400)
	MsgInvalidEthAddress    = ffe("DA10113", "Field '%s' is not a valid ethereum address", 400)
	MsgInvalidDecimalString = ffe("DA10114", "Field '%s' must be a decimal-encoded integer", 400)
	MsgInvalidRecoveryID    = ffe("DA10115", "Field 'v' must be 27 or 28 (received %d)", 400)
	MsgBigIntParseFailed    = ffe("DA10116", "Failed to parse JSON value '%s' into BigInt", 400)
	MsgRESTRequestFailed    = ffe("DA10117", "Error from HTTP request: %s", 502)
	MsgUnknownLedgerPlugin  = ffe("DA10118", "Unknown ledger plugin: %s")
	MsgMissingPluginConfig  = ffe("DA10119", "Missing configuration '%s' for %s")
	MsgUnknownTxStatus      = ffe("DA10120", "Transaction '%s' is not known to the ledger", 404)
	MsgInvalidOutputOption  = ffe("DA10121", "Invalid output option '%s'")

	MsgNonceReadFailed   = ffe("DA10501", "Failed to read current anchoring nonce for '%s'")
	MsgOwnerDeclined     = ffe("DA10502", "Owner declined to sign the anchoring authorization")
	MsgBadSignatureLen   = ffe("DA10503", "Signature must be 65 bytes (received %d)")
	MsgSignerMismatch    = ffe("DA10504", "Recovered signer '%s' does not match owner '%s'")
	MsgSigningFailed     = ffe("DA10505", "Failed to sign anchoring authorization")
	MsgDeadlineInPast    = ffe("DA10506", "Authorization deadline %s has already expired")

	MsgInvalidSigningKey    = ffe("DA10601", "Invalid relay signing key")
	MsgLedgerRejected       = ffe("DA10602", "Ledger rejected the authorization: %s", 500)
	MsgLedgerUnreachable    = ffe("DA10603", "Unable to reach the ledger node: %s", 502)
	MsgInclusionUnknown     = ffe("DA10604", "Inclusion of transaction '%s' is unknown after %.2fs - query its status out of band", 504)
	MsgTransactionReverted  = ffe("DA10605", "Transaction '%s' was mined but reverted by the ledger", 500)
	MsgNonceUnavailable     = ffe("DA10606", "The ledger returned no anchoring nonce for '%s'")
	MsgGasEstimationFailed  = ffe("DA10607", "Transaction simulation failed: %s", 500)

	MsgDocServiceErr = ffe("DA10701", "Error from document service: %s", 502)
)
