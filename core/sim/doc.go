// Package sim drives the hour-by-hour dispatch simulation. It owns the
// sequential loop over the input series, applies the selected strategy's
// command to the battery each hour, settles the residual with the grid and
// accumulates the result table. Hours are strictly ordered: the battery state
// after hour h is input to hour h+1, so a single run is never parallelized.
// Independent scenarios can run concurrently via Sweep.
package sim
