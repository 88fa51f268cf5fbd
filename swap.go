package shiftview

// SwapMode is an hx-swap value: how the response replaces the target.
type SwapMode string

// Swap modes. Actions default to SwapOuter, which suits views that render
// their own root element.
const (
	SwapOuter       SwapMode = "outerHTML"
	SwapInner       SwapMode = "innerHTML"
	SwapBeforeEnd   SwapMode = "beforeend" // append into the target
	SwapAfterEnd    SwapMode = "afterend"
	SwapBeforeBegin SwapMode = "beforebegin"
	SwapAfterBegin  SwapMode = "afterbegin" // prepend into the target
	SwapDelete      SwapMode = "delete"
	SwapNone        SwapMode = "none" // for actions that only open a modal or emit an event
)
