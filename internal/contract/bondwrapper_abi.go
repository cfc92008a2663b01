package contract

// bondwrapper is the ABI of the collateralized wrapper: ERC-20 + Ownable plus
// the owner-only wrap path and the bond contract whitelist. A transfer to a
// whitelisted bond contract burns the wrapped tokens and releases the
// underlying asset to the recipient, emitting Unwrap.
//
//	wrap(uint256)                 → owner only, pulls underlying via transferFrom
//	setBondContract(address,bool) → owner only
//	isBondContract(address)       → view
func init() {
	RegisterBuiltin(BuiltinKind{
		ID:          "bondwrapper",
		Name:        "BondWrapper (collateralized ERC-20 wrapper)",
		Description: "1:1 wrapper of an ERC-20; transfers to whitelisted bond contracts unwrap.",
		ABI:         bondWrapperABI,
	})
}

var bondWrapperABI = append(append([]ABIEntry{}, erc20ABI...),
	view("owner", nil, param("", "address")),
	view("token", nil, param("", "address")),
	view("isBondContract", []ABIParam{param("", "address")}, param("", "bool")),

	nonpayable("wrap", []ABIParam{param("amount", "uint256")}),
	nonpayable("setBondContract", []ABIParam{param("bondContract", "address"), param("status", "bool")}),
	nonpayable("transferOwnership", []ABIParam{param("newOwner", "address")}),
	nonpayable("renounceOwnership", nil),

	event("Wrap", indexed("who", "address"), param("amount", "uint256")),
	event("Unwrap", indexed("from", "address"), indexed("to", "address"), param("amount", "uint256")),
	event("BondContractSet", indexed("bondContract", "address"), param("status", "bool")),
	event("OwnershipTransferred", indexed("previousOwner", "address"), indexed("newOwner", "address")),
)
