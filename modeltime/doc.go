// SPDX-License-Identifier: MIT

// Package modeltime describes the time discretization of a simulation:
// stress periods, their lengths, time step counts and step multipliers.
//
// What:
//
//   - ModelTime{Perlen, Nstp, Tsmult}: per-period discretization.
//   - StepLengths / Totim / Pertim / KperKstp: per-step derived times.
//   - At(key): totim, pertim and step length of one step.
//   - FromHeaders: rebuild a discretization from record keys and times.
//   - Reverse: periods in reverse order with inverted multipliers, so the
//     reversed step sequence is the original one read backwards.
//   - ReadTDIS / WriteTDIS / ReverseTDIS: MODFLOW 6 TDIS input files.
//
// Step lengths in a period follow the simulator:
//
//	tsmult == 1:  Δt = perlen / nstp
//	tsmult != 1:  Δt₁ = perlen·(tsmult−1)/(tsmultⁿˢᵗᵖ−1), Δtᵢ = Δtᵢ₋₁·tsmult
//
// Keys are 1-based, as written in output files.
package modeltime
