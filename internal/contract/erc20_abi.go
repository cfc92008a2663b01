package contract

// erc20 is the standard ERC-20 interface (EIP-20). The underlying asset is
// read through it, and the wrapper ABI extends it.
//
// Function selectors:
//
//	totalSupply()       → 0x18160ddd
//	balanceOf(address)  → 0x70a08231
//	allowance(a,a)      → 0xdd62ed3e
//	transfer(a,u256)    → 0xa9059cbb
//	approve(a,u256)     → 0x095ea7b3
//	transferFrom(a,a,u) → 0x23b872dd
func init() {
	RegisterBuiltin(BuiltinKind{
		ID:          "erc20",
		Name:        "ERC-20 Standard Token",
		Description: "Standard ERC-20 interface (EIP-20); the underlying asset is read through it.",
		ABI:         erc20ABI,
	})
}

var erc20ABI = []ABIEntry{
	view("name", nil, param("", "string")),
	view("symbol", nil, param("", "string")),
	view("decimals", nil, param("", "uint8")),
	view("totalSupply", nil, param("", "uint256")),
	view("balanceOf", []ABIParam{param("account", "address")}, param("", "uint256")),
	view("allowance", []ABIParam{param("owner", "address"), param("spender", "address")}, param("", "uint256")),

	nonpayable("transfer", []ABIParam{param("to", "address"), param("value", "uint256")}, param("", "bool")),
	nonpayable("approve", []ABIParam{param("spender", "address"), param("value", "uint256")}, param("", "bool")),
	nonpayable("transferFrom", []ABIParam{param("from", "address"), param("to", "address"), param("value", "uint256")}, param("", "bool")),

	event("Transfer", indexed("from", "address"), indexed("to", "address"), param("value", "uint256")),
	event("Approval", indexed("owner", "address"), indexed("spender", "address"), param("value", "uint256")),
}
