package chain

// deliveryStoreABI is the subset of the DeliveryStore contract the storefront uses
const deliveryStoreABI = `[
	{"type":"function","name":"owner","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
	{"type":"function","name":"orderProduct","stateMutability":"payable","inputs":[{"name":"productName","type":"string"}],"outputs":[]},
	{"type":"function","name":"openChannel","stateMutability":"payable","inputs":[],"outputs":[]},
	{"type":"function","name":"setDeliveryPerson","stateMutability":"nonpayable","inputs":[{"name":"orderId","type":"uint256"},{"name":"deliveryPerson","type":"address"}],"outputs":[]},
	{"type":"function","name":"confirmDelivery","stateMutability":"nonpayable","inputs":[],"outputs":[]},
	{"type":"event","name":"OrderPlaced","anonymous":false,"inputs":[
		{"name":"orderId","type":"uint256","indexed":true},
		{"name":"customer","type":"address","indexed":true},
		{"name":"deliveryPersonAddress","type":"address","indexed":false},
		{"name":"productName","type":"string","indexed":false},
		{"name":"price","type":"uint256","indexed":false}
	]},
	{"type":"event","name":"ChannelOpened","anonymous":false,"inputs":[
		{"name":"customer","type":"address","indexed":true},
		{"name":"amount","type":"uint256","indexed":false}
	]}
]`

// contract methods and events
const (
	methodOwner             = "owner"
	methodOrderProduct      = "orderProduct"
	methodOpenChannel       = "openChannel"
	methodSetDeliveryPerson = "setDeliveryPerson"
	methodConfirmDelivery   = "confirmDelivery"

	eventOrderPlaced   = "OrderPlaced"
	eventChannelOpened = "ChannelOpened"
)
