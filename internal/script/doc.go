// Package script drives a calculator engine from Lua.
//
// A script sees four globals:
//
//	press(keys)  -- types a key sequence, e.g. "12+3<CR>", returns the display
//	display()    -- returns the display text
//	clear()      -- resets the calculator
//	state()      -- returns {display, first_operand, operator, waiting, phase}
//
// Keys go through the same keymap as the terminal widget, so user bindings
// apply. Quit bindings are ignored. Only the base, table, string and math
// libraries are available, and print writes to the runner's output.
package script
